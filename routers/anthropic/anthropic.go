// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package anthropic translates Anthropic messages API requests into claude
// CLI invocations
package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
	"github.com/tidwall/gjson"

	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/prompts"
	"github.com/ninegate/ninegate/routers/base"
)

const RouterName = "claude-cli"

var cliPath = "claude"

type Router struct {
	base.Router
}

type message struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Model        string         `json:"model"`
	Content      []contentBlock `json:"content"`
	StopReason   string         `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type errorBody struct {
	Type  string      `json:"type"`
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ParseRequest folds an Anthropic messages body into a prompt environment,
// content is either a plain string or a list of typed blocks
func (r *Router) ParseRequest(req *model.ProxyRequest) (*prompts.Env, error) {
	env := &prompts.Env{
		Vendor: model.AnthropicVendor,
		Model:  gjson.GetBytes(req.Body, "model").String(),
		System: flattenContent(gjson.GetBytes(req.Body, "system")),
		Body:   json.RawMessage(req.Body),
	}

	for _, m := range gjson.GetBytes(req.Body, "messages").Array() {
		content := flattenContent(m.Get("content"))
		if content == "" {
			continue
		}

		env.Messages = append(env.Messages, prompts.Message{
			Role:    m.Get("role").String(),
			Content: content,
		})
	}

	if len(env.Messages) == 0 {
		return nil, fmt.Errorf("%w: no usable message content", model.ErrRequestInvalid)
	}

	return env, nil
}

func (r *Router) CommandLine(prompt string) (string, []string) {
	return cliPath, []string{"-p", prompt, "--output-format", "json"}
}

// SuccessResponse parses the claude CLI result JSON and renders an
// Anthropic shaped message
func (r *Router) SuccessResponse(env *prompts.Env, outcome *model.ExecutionOutcome) (*model.VendorResponse, error) {
	stdout := strings.TrimSpace(string(outcome.Stdout))

	text := stdout
	inputTokens := 0
	outputTokens := 0

	parsed := gjson.Parse(stdout)
	if parsed.IsObject() {
		if parsed.Get("is_error").Bool() {
			return r.ErrorResponse(502, "api_error", parsed.Get("result").String()), nil
		}

		if res := parsed.Get("result"); res.Exists() {
			text = res.String()
		}

		inputTokens = int(parsed.Get("usage.input_tokens").Int())
		outputTokens = int(parsed.Get("usage.output_tokens").Int())
	}

	if inputTokens == 0 {
		inputTokens = promptTokens(env)
	}
	if outputTokens == 0 {
		outputTokens = base.EstimateTokens(text)
	}

	body, err := json.Marshal(&message{
		ID:         fmt.Sprintf("msg_%s", ksuid.New().String()),
		Type:       "message",
		Role:       "assistant",
		Model:      env.Model,
		Content:    []contentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      usage{InputTokens: inputTokens, OutputTokens: outputTokens},
	})
	if err != nil {
		return nil, err
	}

	return &model.VendorResponse{Status: 200, Body: body}, nil
}

func (r *Router) ErrorResponse(status int, kind string, msg string) *model.VendorResponse {
	body, _ := json.Marshal(&errorBody{
		Type:  "error",
		Error: errorDetail{Type: kind, Message: msg},
	})

	return &model.VendorResponse{Status: status, Body: body}
}

// flattenContent joins text blocks, plain strings pass through unchanged
func flattenContent(content gjson.Result) string {
	if !content.Exists() {
		return ""
	}

	if content.IsArray() {
		var parts []string
		for _, block := range content.Array() {
			if block.Get("type").String() == "text" {
				parts = append(parts, block.Get("text").String())
			}
		}

		return strings.Join(parts, "\n")
	}

	return content.String()
}

func promptTokens(env *prompts.Env) int {
	total := base.EstimateTokens(env.System)
	for _, m := range env.Messages {
		total += base.EstimateTokens(m.Content)
	}

	return total
}
