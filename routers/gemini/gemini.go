// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package gemini translates Gemini generateContent requests into gemini
// CLI invocations
package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/prompts"
	"github.com/ninegate/ninegate/routers/base"
)

const RouterName = "gemini-cli"

var cliPath = "gemini"

type Router struct {
	base.Router
}

type response struct {
	Candidates    []candidate   `json:"candidates"`
	UsageMetadata usageMetadata `json:"usageMetadata"`
	ModelVersion  string        `json:"modelVersion"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
	Index        int     `json:"index"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type part struct {
	Text string `json:"text"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ParseRequest folds a Gemini generateContent body into a prompt
// environment, the model comes from the request path not the body
func (r *Router) ParseRequest(req *model.ProxyRequest) (*prompts.Env, error) {
	env := &prompts.Env{
		Vendor: model.GeminiVendor,
		Model:  req.Model,
		System: joinParts(systemInstruction(req.Body)),
		Body:   json.RawMessage(req.Body),
	}

	for _, c := range gjson.GetBytes(req.Body, "contents").Array() {
		text := joinParts(c.Get("parts"))
		if text == "" {
			continue
		}

		role := c.Get("role").String()
		if role == "" {
			role = "user"
		}

		env.Messages = append(env.Messages, prompts.Message{Role: role, Content: text})
	}

	if len(env.Messages) == 0 {
		return nil, fmt.Errorf("%w: no usable message content", model.ErrRequestInvalid)
	}

	return env, nil
}

func (r *Router) CommandLine(prompt string) (string, []string) {
	return cliPath, []string{"-p", prompt}
}

// SuccessResponse wraps the gemini CLI's plain stdout as a single candidate
func (r *Router) SuccessResponse(env *prompts.Env, outcome *model.ExecutionOutcome) (*model.VendorResponse, error) {
	text := strings.TrimSpace(string(outcome.Stdout))

	promptTokens := base.EstimateTokens(env.System)
	for _, m := range env.Messages {
		promptTokens += base.EstimateTokens(m.Content)
	}
	candidateTokens := base.EstimateTokens(text)

	body, err := json.Marshal(&response{
		Candidates: []candidate{{
			Content:      content{Parts: []part{{Text: text}}, Role: "model"},
			FinishReason: "STOP",
		}},
		UsageMetadata: usageMetadata{
			PromptTokenCount:     promptTokens,
			CandidatesTokenCount: candidateTokens,
			TotalTokenCount:      promptTokens + candidateTokens,
		},
		ModelVersion: env.Model,
	})
	if err != nil {
		return nil, err
	}

	return &model.VendorResponse{Status: 200, Body: body}, nil
}

func (r *Router) ErrorResponse(status int, kind string, msg string) *model.VendorResponse {
	body, _ := json.Marshal(&errorBody{
		Error: errorDetail{Code: status, Message: msg, Status: googleStatus(kind)},
	})

	return &model.VendorResponse{Status: status, Body: body}
}

func googleStatus(kind string) string {
	switch kind {
	case "invalid_request_error":
		return "INVALID_ARGUMENT"
	case "timeout_error":
		return "DEADLINE_EXCEEDED"
	case "cancelled_error":
		return "CANCELLED"
	case "api_error":
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// systemInstruction supports both the camelCase and snake_case field names
func systemInstruction(body []byte) gjson.Result {
	si := gjson.GetBytes(body, "systemInstruction.parts")
	if si.Exists() {
		return si
	}

	return gjson.GetBytes(body, "system_instruction.parts")
}

func joinParts(parts gjson.Result) string {
	if !parts.Exists() {
		return ""
	}

	var texts []string
	for _, p := range parts.Array() {
		if t := p.Get("text"); t.Exists() {
			texts = append(texts, t.String())
		}
	}

	return strings.Join(texts, "\n")
}
