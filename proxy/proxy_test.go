// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"

	"github.com/ninegate/ninegate/audit"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/model/modelmocks"
)

func TestProxy(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Proxy")
}

const sentinelKey = "999999999999"

var _ = Describe("Config", func() {
	It("Should apply defaults", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Host).To(Equal("127.0.0.1"))
		Expect(cfg.Port).To(Equal(8080))
		Expect(cfg.LogLevel).To(Equal("info"))
		Expect(cfg.AllowedPaths).To(Equal(DefaultAllowedPaths))
	})

	It("Should keep defaults when the config file is absent", func() {
		cfg, err := LoadConfig("")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Port).To(Equal(8080))
		Expect(cfg.LogLevel).To(Equal("info"))

		cfg, err = LoadConfig("/nonexistent/ninegate.yaml")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Host).To(Equal("127.0.0.1"))
		Expect(cfg.Port).To(Equal(8080))
	})

	It("Should parse and validate yaml", func() {
		cfg, err := ParseConfig([]byte(`
port: 9090
log_level: debug
grace_window: 1s
escalation_ceiling: 3s
vendors:
  anthropic:
    command: node /opt/claude/cli.js
    timeout: 2m
rules:
  - match: vendor == "gemini"
    mode: forward
`))
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Port).To(Equal(9090))
		Expect(cfg.graceDuration.String()).To(Equal("1s"))
		Expect(cfg.Vendors["anthropic"].ParsedTimeout.String()).To(Equal("2m0s"))
	})

	It("Should reject bad configurations", func() {
		_, err := ParseConfig([]byte("log_level: loud"))
		Expect(err).To(MatchError(ContainSubstring("log_level must be one of")))

		_, err = ParseConfig([]byte("port: 999999"))
		Expect(err).To(MatchError(ContainSubstring("port must be between")))

		_, err = ParseConfig([]byte("grace_window: 5s\nescalation_ceiling: 2s"))
		Expect(err).To(MatchError(ContainSubstring("escalation_ceiling must exceed grace_window")))

		_, err = ParseConfig([]byte("vendors:\n  mystery: {}"))
		Expect(err).To(MatchError(model.ErrVendorUnknown))

		_, err = ParseConfig([]byte("rules:\n  - match: sentinel\n    mode: maybe"))
		Expect(err).To(MatchError(ContainSubstring("rule mode must be one of")))
	})

	It("Should default vendor upstreams", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())

		vcfg, err := cfg.VendorConfig(model.AnthropicVendor)
		Expect(err).ToNot(HaveOccurred())
		Expect(vcfg.Upstream).To(Equal("https://api.anthropic.com"))
		Expect(vcfg.ParsedTimeout.String()).To(Equal("5m0s"))
	})
})

var _ = Describe("Sentinel detection", func() {
	It("Should detect all nines credentials", func() {
		Expect(IsSentinel(sentinelKey)).To(BeTrue())
		Expect(IsSentinel("9")).To(BeTrue())
		Expect(IsSentinel("")).To(BeFalse())
		Expect(IsSentinel("sk-ant-999")).To(BeFalse())
		Expect(IsSentinel("99a99")).To(BeFalse())
	})

	It("Should extract credentials per vendor", func() {
		req := httptest.NewRequest("POST", "/v1/messages", nil)
		req.Header.Set("x-api-key", "key-a")
		Expect(Credential(model.AnthropicVendor, req)).To(Equal("key-a"))

		req = httptest.NewRequest("POST", "/v1/chat/completions", nil)
		req.Header.Set("Authorization", "Bearer key-b")
		Expect(Credential(model.OpenAIVendor, req)).To(Equal("key-b"))

		req = httptest.NewRequest("POST", "/v1beta/models/gemini-2.5-pro:generateContent?key=key-c", nil)
		Expect(Credential(model.GeminiVendor, req)).To(Equal("key-c"))

		req.Header.Set("x-goog-api-key", "key-d")
		Expect(Credential(model.GeminiVendor, req)).To(Equal("key-d"))
	})

	It("Should map paths to vendors", func() {
		vendor, err := VendorForPath("/v1/messages")
		Expect(err).ToNot(HaveOccurred())
		Expect(vendor).To(Equal(model.AnthropicVendor))

		vendor, err = VendorForPath("/v1/chat/completions")
		Expect(err).ToNot(HaveOccurred())
		Expect(vendor).To(Equal(model.OpenAIVendor))

		vendor, err = VendorForPath("/v1beta/models/gemini-2.5-pro:generateContent")
		Expect(err).ToNot(HaveOccurred())
		Expect(vendor).To(Equal(model.GeminiVendor))

		_, err = VendorForPath("/v1/other")
		Expect(err).To(MatchError(model.ErrVendorUnknown))

		Expect(ModelFromPath("/v1beta/models/gemini-2.5-pro:generateContent")).To(Equal("gemini-2.5-pro"))
		Expect(ModelFromPath("/v1/messages")).To(Equal(""))
	})
})

var _ = Describe("Allowlist", func() {
	It("Should allow the default endpoints", func() {
		list, err := NewAllowlist(nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(list.Allows("/v1/messages")).To(BeTrue())
		Expect(list.Allows("/v1/chat/completions")).To(BeTrue())
		Expect(list.Allows("/v1beta/models/gemini-2.5-pro:generateContent")).To(BeTrue())
		Expect(list.Allows("/v1/models/gemini-2.5-pro:generateContent")).To(BeTrue())
		Expect(list.Allows("/admin")).To(BeFalse())
	})

	It("Should reject invalid patterns", func() {
		_, err := NewAllowlist([]string{"["})
		Expect(err).To(MatchError(ContainSubstring("invalid allowed path pattern")))
	})
})

var _ = Describe("Rules", func() {
	It("Should apply the first matching rule", func() {
		rules, err := NewRules([]RuleConfig{
			{Match: `vendor == "gemini"`, Mode: model.ModeForward},
			{Match: `model startsWith "claude-" && sentinel`, Mode: model.ModeLocal},
		})
		Expect(err).ToNot(HaveOccurred())

		mode, matched, err := rules.Evaluate(RuleEnv{Vendor: "gemini", Sentinel: true})
		Expect(err).ToNot(HaveOccurred())
		Expect(matched).To(BeTrue())
		Expect(mode).To(Equal(model.ModeForward))

		mode, matched, err = rules.Evaluate(RuleEnv{Vendor: "anthropic", Model: "claude-sonnet-4-5", Sentinel: true})
		Expect(err).ToNot(HaveOccurred())
		Expect(matched).To(BeTrue())
		Expect(mode).To(Equal(model.ModeLocal))

		_, matched, err = rules.Evaluate(RuleEnv{Vendor: "openai"})
		Expect(err).ToNot(HaveOccurred())
		Expect(matched).To(BeFalse())
	})

	It("Should reject non boolean rules", func() {
		_, err := NewRules([]RuleConfig{{Match: `model`, Mode: model.ModeLocal}})
		Expect(err).To(MatchError(ContainSubstring("invalid rule")))
	})
})

var _ = Describe("Logger wrappers", func() {
	It("Should wrap slog loggers with fields", func() {
		buf := &bytes.Buffer{}
		log := NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		log.With("vendor", "anthropic").Info("request routed", "mode", "local")
		Expect(buf.String()).To(ContainSubstring("request routed"))
		Expect(buf.String()).To(ContainSubstring("vendor=anthropic"))
		Expect(buf.String()).To(ContainSubstring("mode=local"))
	})

	It("Should wrap logrus loggers with fields", func() {
		buf := &bytes.Buffer{}
		ll := logrus.New()
		ll.SetOutput(buf)
		ll.SetFormatter(&logrus.JSONFormatter{})

		log := NewLogrusLogger(logrus.NewEntry(ll))
		log.With("vendor", "gemini").Warn("invocation timedout", "runtime", "5s")

		Expect(buf.String()).To(ContainSubstring(`"vendor":"gemini"`))
		Expect(buf.String()).To(ContainSubstring(`"runtime":"5s"`))
		Expect(buf.String()).To(ContainSubstring("invocation timedout"))

		buf.Reset()
		log.Info("dangling args", "orphan")
		Expect(buf.String()).To(ContainSubstring(`"!BADKEY":"orphan"`))
	})
})

var _ = Describe("Server", func() {
	var (
		mockctl  *gomock.Controller
		mockExec *modelmocks.MockExecutor
		logger   *modelmocks.MockLogger
		store    *audit.MemoryStore
		srv      *httptest.Server
	)

	newProxy := func(cfg *Config) {
		var err error

		store, err = audit.NewMemoryStore(logger)
		Expect(err).ToNot(HaveOccurred())
		Expect(store.Start()).To(Succeed())

		p, err := New(cfg, WithLogger(logger), WithExecutor(mockExec), WithAuditStore(store))
		Expect(err).ToNot(HaveOccurred())

		srv = httptest.NewServer(p.handler())
		DeferCleanup(srv.Close)
	}

	anthropicRequest := func(key string) *http.Request {
		body := []byte(`{"model":"claude-sonnet-4-5","max_tokens":64,"messages":[{"role":"user","content":"hi"}]}`)
		req, err := http.NewRequest("POST", srv.URL+"/v1/messages", bytes.NewReader(body))
		Expect(err).ToNot(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("x-api-key", key)
		}

		return req
	}

	BeforeEach(func() {
		mockctl = gomock.NewController(GinkgoT())
		mockExec = modelmocks.NewMockExecutor(mockctl)
		logger = modelmocks.NewQuietLogger(mockctl)
	})

	AfterEach(func() {
		mockctl.Finish()
	})

	It("Should execute locally for sentinel credentials and audit the outcome", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
			Kind:   model.OutcomeCompleted,
			Stdout: []byte(`{"result":"hello from claude"}`),
		}, nil)

		resp, err := http.DefaultClient.Do(anthropicRequest(sentinelKey))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(200))
		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(gjson.GetBytes(body, "content.0.text").String()).To(Equal("hello from claude"))

		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(2))

		event, ok := events[1].(*model.InvocationEvent)
		Expect(ok).To(BeTrue())
		Expect(event.Mode).To(Equal(model.ModeLocal))
		Expect(event.Vendor).To(Equal(model.AnthropicVendor))
		Expect(event.Outcome).To(Equal("completed"))
	})

	It("Should forward real credentials to the upstream untouched", func() {
		var gotKey string
		var gotBody []byte

		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-api-key")
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"msg_real","type":"message"}`))
		}))
		DeferCleanup(backend.Close)

		cfg, err := ParseConfig([]byte("vendors:\n  anthropic:\n    upstream: " + backend.URL))
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		resp, err := http.DefaultClient.Do(anthropicRequest("sk-ant-real-key"))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(200))
		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(gjson.GetBytes(body, "id").String()).To(Equal("msg_real"))

		Expect(gotKey).To(Equal("sk-ant-real-key"))
		Expect(gjson.GetBytes(gotBody, "model").String()).To(Equal("claude-sonnet-4-5"))

		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		event, ok := events[1].(*model.InvocationEvent)
		Expect(ok).To(BeTrue())
		Expect(event.Mode).To(Equal(model.ModeForward))
	})

	It("Should forward when no credential is present", func() {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"error"}`))
		}))
		DeferCleanup(backend.Close)

		cfg, err := ParseConfig([]byte("vendors:\n  anthropic:\n    upstream: " + backend.URL))
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		resp, err := http.DefaultClient.Do(anthropicRequest(""))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("Should honor routing rules over sentinel detection", func() {
		cfg, err := ParseConfig([]byte("rules:\n  - match: vendor == \"anthropic\"\n    mode: local"))
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
			Kind:   model.OutcomeCompleted,
			Stdout: []byte(`{"result":"forced local"}`),
		}, nil)

		resp, err := http.DefaultClient.Do(anthropicRequest("sk-ant-real-key"))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(200))
	})

	It("Should refuse paths outside the allowlist", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		resp, err := http.Post(srv.URL+"/admin", "application/json", bytes.NewReader([]byte("{}")))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})

	It("Should refuse non POST methods", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		resp, err := http.Get(srv.URL + "/v1/messages")
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
	})

	It("Should report CLI availability on healthz", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		resp, err := http.Get(srv.URL + "/healthz")
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(200))
		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(gjson.GetBytes(body, "status").String()).To(Equal("ok"))
		Expect(gjson.GetBytes(body, "clis").IsObject()).To(BeTrue())
	})

	It("Should map local timeouts to vendor shaped 504 responses", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&model.ExecutionOutcome{
			Kind: model.OutcomeTimedOut,
		}, nil)

		resp, err := http.DefaultClient.Do(anthropicRequest(sentinelKey))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(504))

		events, err := store.AllEvents()
		Expect(err).ToNot(HaveOccurred())
		event := events[1].(*model.InvocationEvent)
		Expect(event.Outcome).To(Equal("timedout"))
		Expect(event.Error).ToNot(BeEmpty())
	})

	It("Should run a gemini request from the path derived model", func() {
		cfg, err := ParseConfig(nil)
		Expect(err).ToNot(HaveOccurred())
		newProxy(cfg)

		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, spec model.CommandSpec) (*model.ExecutionOutcome, error) {
				Expect(spec.Command).To(Equal("gemini"))
				return &model.ExecutionOutcome{Kind: model.OutcomeCompleted, Stdout: []byte("hi")}, nil
			})

		body := []byte(`{"contents":[{"role":"user","parts":[{"text":"hello"}]}]}`)
		req, err := http.NewRequest("POST", srv.URL+"/v1beta/models/gemini-2.5-pro:generateContent", bytes.NewReader(body))
		Expect(err).ToNot(HaveOccurred())
		req.Header.Set("x-goog-api-key", sentinelKey)

		resp, err := http.DefaultClient.Do(req)
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(200))
		rbody, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(gjson.GetBytes(rbody, "modelVersion").String()).To(Equal("gemini-2.5-pro"))
	})
})
