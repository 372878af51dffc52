// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"time"

	"github.com/choria-io/fisk"
)

const (
	// AnthropicVendor is the vendor name for the Anthropic messages API
	AnthropicVendor = "anthropic"

	// OpenAIVendor is the vendor name for the OpenAI chat completions API
	OpenAIVendor = "openai"

	// GeminiVendor is the vendor name for the Gemini generateContent API
	GeminiVendor = "gemini"
)

// ModeLocal and ModeForward identify how a request was satisfied
const (
	ModeLocal   = "local"
	ModeForward = "forward"
)

// VendorConfig configures one vendor's local CLI and hosted upstream
type VendorConfig struct {
	// Command overrides the CLI to run, split shell style so it may carry
	// arguments, for example "node /opt/claude/cli.js"
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// Args are appended to the vendor's standard CLI arguments
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Timeout bounds every local invocation for this vendor
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Upstream is the hosted API base URL used for forwarded requests
	Upstream string `json:"upstream,omitempty" yaml:"upstream,omitempty"`

	// PromptTemplate is an optional jet template used to fold the request
	// message list into a single CLI prompt
	PromptTemplate string `json:"prompt_template,omitempty" yaml:"prompt_template,omitempty"`

	// Cwd is the working directory local invocations run in
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty"`

	// Environment is an overlay added to the invocation environment
	Environment []string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// OutputLimit caps captured CLI output per stream
	OutputLimit int `json:"output_limit,omitempty" yaml:"output_limit,omitempty"`

	ParsedTimeout time.Duration `json:"-" yaml:"-"`
}

// Validate parses durations and applies defaults
func (c *VendorConfig) Validate() error {
	if c.Timeout == "" {
		c.Timeout = "5m"
	}

	var err error
	c.ParsedTimeout, err = fisk.ParseDuration(c.Timeout)
	if err != nil {
		return err
	}

	if c.ParsedTimeout <= 0 {
		return ErrTimeoutRequired
	}

	return nil
}

// ProxyRequest is a normalized inbound API request as seen by a router
type ProxyRequest struct {
	// Vendor identifies which hosted API shape the request uses
	Vendor string

	// Model is the requested model name, extracted from body or path
	Model string

	// Path is the request path as received
	Path string

	// Body is the raw JSON request body
	Body []byte
}

// VendorResponse is a vendor-shaped HTTP response produced by a router
type VendorResponse struct {
	Status int
	Body   []byte

	// Outcome is the execution outcome behind the response when a local
	// invocation ran, nil when the request never reached the executor
	Outcome *ExecutionOutcome
}

// Router translates vendor-shaped requests into local CLI invocations and
// process outcomes back into vendor-shaped responses
type Router interface {
	// Vendor returns the vendor this router serves
	Vendor() string

	// Name returns a human readable name for this router implementation
	Name() string

	// Generate satisfies the request by executing the local CLI, the
	// response is always vendor shaped including error cases
	Generate(ctx context.Context, req *ProxyRequest) (*VendorResponse, error)
}

// RouterFactory creates routers for a vendor
type RouterFactory interface {
	Vendor() string
	Name() string
	New(cfg VendorConfig, log Logger, executor Executor) (Router, error)
}
