// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package openai translates OpenAI chat completions requests into codex
// CLI invocations
package openai

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/tidwall/gjson"

	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/prompts"
	"github.com/ninegate/ninegate/routers/base"
)

const RouterName = "codex-cli"

var cliPath = "codex"

type Router struct {
	base.Router
}

type completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// ParseRequest folds an OpenAI chat completions body into a prompt
// environment, system and developer turns become the system text
func (r *Router) ParseRequest(req *model.ProxyRequest) (*prompts.Env, error) {
	env := &prompts.Env{
		Vendor: model.OpenAIVendor,
		Model:  gjson.GetBytes(req.Body, "model").String(),
		Body:   json.RawMessage(req.Body),
	}

	var system []string
	for _, m := range gjson.GetBytes(req.Body, "messages").Array() {
		role := m.Get("role").String()
		content := m.Get("content").String()
		if content == "" {
			continue
		}

		switch role {
		case "system", "developer":
			system = append(system, content)
		default:
			env.Messages = append(env.Messages, prompts.Message{Role: role, Content: content})
		}
	}
	env.System = strings.Join(system, "\n")

	if len(env.Messages) == 0 {
		return nil, fmt.Errorf("%w: no usable message content", model.ErrRequestInvalid)
	}

	return env, nil
}

func (r *Router) CommandLine(prompt string) (string, []string) {
	return cliPath, []string{"exec", "--json", prompt}
}

// SuccessResponse scans the codex JSONL event stream, the last completed
// agent message wins
func (r *Router) SuccessResponse(env *prompts.Env, outcome *model.ExecutionOutcome) (*model.VendorResponse, error) {
	text := lastAgentMessage(outcome.Stdout)
	if text == "" {
		text = strings.TrimSpace(string(outcome.Stdout))
	}

	promptTokens := base.EstimateTokens(env.System)
	for _, m := range env.Messages {
		promptTokens += base.EstimateTokens(m.Content)
	}
	completionTokens := base.EstimateTokens(text)

	body, err := json.Marshal(&completion{
		ID:      fmt.Sprintf("chatcmpl-%s", ksuid.New().String()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   env.Model,
		Choices: []choice{{
			Message:      responseMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
		Usage: usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	return &model.VendorResponse{Status: 200, Body: body}, nil
}

func (r *Router) ErrorResponse(status int, kind string, msg string) *model.VendorResponse {
	body, _ := json.Marshal(&errorBody{
		Error: errorDetail{Message: msg, Type: kind},
	})

	return &model.VendorResponse{Status: status, Body: body}
}

// lastAgentMessage finds the final agent_message item in a codex JSONL stream
func lastAgentMessage(stdout []byte) string {
	var text string

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := gjson.ParseBytes(scanner.Bytes())

		item := line.Get("item")
		if item.Get("type").String() == "agent_message" {
			text = item.Get("text").String()
			continue
		}

		// older codex releases emit msg wrapped events
		msg := line.Get("msg")
		if msg.Get("type").String() == "agent_message" {
			text = msg.Get("message").String()
		}
	}

	return text
}
