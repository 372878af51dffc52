// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package openai

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"

	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/model/modelmocks"
)

func TestOpenAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Routers/OpenAI")
}

var _ = Describe("Router", func() {
	var (
		mockctl  *gomock.Controller
		executor *modelmocks.MockExecutor
		logger   *modelmocks.MockLogger
		router   model.Router
		req      *model.ProxyRequest
		err      error
	)

	BeforeEach(func() {
		mockctl = gomock.NewController(GinkgoT())
		executor = modelmocks.NewMockExecutor(mockctl)
		logger = modelmocks.NewQuietLogger(mockctl)

		router, err = (&factory{}).New(model.VendorConfig{Timeout: "1m"}, logger, executor)
		Expect(err).ToNot(HaveOccurred())

		req = &model.ProxyRequest{
			Vendor: model.OpenAIVendor,
			Path:   "/v1/chat/completions",
			Body: []byte(`{
				"model": "gpt-5",
				"messages": [
					{"role": "system", "content": "be brief"},
					{"role": "user", "content": "say hi"}
				]
			}`),
		}
	})

	AfterEach(func() {
		mockctl.Finish()
	})

	Describe("Generate", func() {
		It("Should run codex exec and pick the last agent message", func() {
			var spec model.CommandSpec

			stdout := `{"type":"session.created","session_id":"s1"}
{"type":"item.completed","item":{"type":"reasoning","text":"thinking"}}
{"type":"item.completed","item":{"type":"agent_message","text":"first draft"}}
{"type":"item.completed","item":{"type":"agent_message","text":"hello!"}}
{"type":"turn.completed","usage":{"input_tokens":12}}`

			executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, s model.CommandSpec) (*model.ExecutionOutcome, error) {
					spec = s
					return &model.ExecutionOutcome{
						Kind:    model.OutcomeCompleted,
						Stdout:  []byte(stdout),
						Runtime: 200 * time.Millisecond,
					}, nil
				})

			resp, err := router.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Status).To(Equal(200))

			Expect(spec.Command).To(Equal("codex"))
			Expect(spec.Args).To(Equal([]string{"exec", "--json", "be brief\n\nuser: say hi"}))

			body := gjson.ParseBytes(resp.Body)
			Expect(body.Get("id").String()).To(HavePrefix("chatcmpl-"))
			Expect(body.Get("object").String()).To(Equal("chat.completion"))
			Expect(body.Get("model").String()).To(Equal("gpt-5"))
			Expect(body.Get("choices.0.message.role").String()).To(Equal("assistant"))
			Expect(body.Get("choices.0.message.content").String()).To(Equal("hello!"))
			Expect(body.Get("choices.0.finish_reason").String()).To(Equal("stop"))
			Expect(body.Get("usage.total_tokens").Int()).To(BeNumerically(">", 0))
		})

		It("Should understand msg wrapped events from older releases", func() {
			executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
				Kind:   model.OutcomeCompleted,
				Stdout: []byte(`{"msg":{"type":"agent_message","message":"from msg"}}`),
			}, nil)

			resp, err := router.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(gjson.GetBytes(resp.Body, "choices.0.message.content").String()).To(Equal("from msg"))
		})

		It("Should fall back to raw stdout without agent messages", func() {
			executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
				Kind:   model.OutcomeCompleted,
				Stdout: []byte("plain output\n"),
			}, nil)

			resp, err := router.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(gjson.GetBytes(resp.Body, "choices.0.message.content").String()).To(Equal("plain output"))
		})

		It("Should reject bodies without messages", func() {
			req.Body = []byte(`{"model": "gpt-5"}`)

			resp, err := router.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Status).To(Equal(400))
			Expect(gjson.GetBytes(resp.Body, "error.type").String()).To(Equal("invalid_request_error"))
		})

		It("Should render OpenAI shaped timeout errors", func() {
			executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
				Kind:    model.OutcomeTimedOut,
				Runtime: time.Minute,
			}, nil)

			resp, err := router.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Status).To(Equal(504))
			Expect(gjson.GetBytes(resp.Body, "error.type").String()).To(Equal("timeout_error"))
			Expect(gjson.GetBytes(resp.Body, "error.message").String()).ToNot(BeEmpty())
		})
	})
})
