// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package base carries the shared request translation pipeline vendor
// routers embed
package base

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"

	"github.com/ninegate/ninegate/metrics"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/prompts"
)

// Translator is implemented by vendor routers that embed Router
type Translator interface {
	// ParseRequest extracts the prompt environment from a vendor shaped body
	ParseRequest(req *model.ProxyRequest) (*prompts.Env, error)

	// CommandLine is the vendor's default CLI invocation for a prompt
	CommandLine(prompt string) (command string, args []string)

	// SuccessResponse renders a zero exit outcome as a vendor shaped response
	SuccessResponse(env *prompts.Env, outcome *model.ExecutionOutcome) (*model.VendorResponse, error)

	// ErrorResponse renders a vendor shaped error body
	ErrorResponse(status int, kind string, message string) *model.VendorResponse
}

// StatusClientClosed is the nginx convention for requests the client abandoned
const StatusClientClosed = 499

type Router struct {
	Translator   Translator
	RouterVendor string
	RouterName   string
	Config       model.VendorConfig
	Schema       *jsonschema.Schema
	Log          model.Logger
	Executor     model.Executor
}

// MustCompileSchema compiles an embedded request schema, panicking on
// malformed schemas since those ship with the binary
func MustCompileSchema(name string, schema []byte) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	err = compiler.AddResource(name, doc)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", name, err))
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", name, err))
	}

	return compiled
}

func (r *Router) Vendor() string { return r.RouterVendor }
func (r *Router) Name() string   { return r.RouterName }

// Generate validates the request, folds it into a prompt, runs the vendor
// CLI and translates the outcome back into a vendor shaped response. The
// response is always vendor shaped, errors are reserved for internal
// failures like unconfirmed terminations.
func (r *Router) Generate(ctx context.Context, req *model.ProxyRequest) (*model.VendorResponse, error) {
	if err := r.validateBody(req.Body); err != nil {
		r.Log.Warn("Rejecting invalid request body", "vendor", r.RouterVendor, "error", err)
		metrics.RequestInvalidCount.WithLabelValues(r.RouterVendor).Inc()

		return r.Translator.ErrorResponse(400, "invalid_request_error", fmt.Sprintf("%v: %v", model.ErrRequestInvalid, err)), nil
	}

	if gjson.GetBytes(req.Body, "stream").Bool() {
		return r.Translator.ErrorResponse(400, "invalid_request_error", model.ErrStreamingLocal.Error()), nil
	}

	env, err := r.Translator.ParseRequest(req)
	if err != nil {
		return r.Translator.ErrorResponse(400, "invalid_request_error", err.Error()), nil
	}
	env.Environ = environMap(r.Config.Environment)

	prompt, err := prompts.Render(r.Config.PromptTemplate, env)
	if err != nil {
		return nil, err
	}

	spec, err := r.commandSpec(prompt)
	if err != nil {
		return nil, err
	}

	r.Log.Info("Executing local CLI", "vendor", r.RouterVendor, "command", spec.Command, "model", env.Model, "timeout", spec.Timeout)
	metrics.InvocationCount.WithLabelValues(r.RouterVendor).Inc()

	outcome, err := r.Executor.Execute(ctx, spec)
	if err != nil {
		metrics.TerminationFailedCount.WithLabelValues(r.RouterVendor).Inc()
		return nil, err
	}

	metrics.RecordOutcome(r.RouterVendor, outcome)
	outcome.LogStatus(r.Log, "vendor", r.RouterVendor)

	resp, err := r.translateOutcome(env, outcome)
	if err != nil {
		return nil, err
	}
	resp.Outcome = outcome

	return resp, nil
}

func (r *Router) translateOutcome(env *prompts.Env, outcome *model.ExecutionOutcome) (*model.VendorResponse, error) {
	switch outcome.Kind {
	case model.OutcomeTimedOut:
		return r.Translator.ErrorResponse(504, "timeout_error", fmt.Sprintf("%v after %v", model.ErrTimedOut, outcome.Runtime.Round(time.Millisecond))), nil

	case model.OutcomeCancelled:
		return r.Translator.ErrorResponse(StatusClientClosed, "cancelled_error", model.ErrCancelled.Error()), nil

	case model.OutcomeLaunchFailed:
		command, _ := r.Translator.CommandLine("")
		if r.Config.Command != "" {
			command = r.Config.Command
		}

		return r.Translator.ErrorResponse(502, "api_error", fmt.Sprintf("%v: %s, is %q installed and on PATH?", model.ErrLaunchFailed, outcome.Reason, command)), nil
	}

	if outcome.ExitCode != 0 {
		detail := strings.TrimSpace(string(outcome.Stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(outcome.Stdout))
		}

		return r.Translator.ErrorResponse(502, "api_error", fmt.Sprintf("cli exited %d: %s", outcome.ExitCode, detail)), nil
	}

	return r.Translator.SuccessResponse(env, outcome)
}

// commandSpec resolves the configured command override, falling back to the
// vendor default, overrides are split shell style so they can carry arguments
func (r *Router) commandSpec(prompt string) (model.CommandSpec, error) {
	command, args := r.Translator.CommandLine(prompt)

	if r.Config.Command != "" {
		parts, err := shellquote.Split(r.Config.Command)
		if err != nil {
			return model.CommandSpec{}, fmt.Errorf("invalid command override: %w", err)
		}
		if len(parts) == 0 {
			return model.CommandSpec{}, model.ErrCommandRequired
		}

		command = parts[0]
		args = append(append([]string{}, parts[1:]...), args...)
	}

	args = append(args, r.Config.Args...)

	return model.CommandSpec{
		Command:     command,
		Args:        args,
		Cwd:         r.Config.Cwd,
		Environment: r.Config.Environment,
		Timeout:     r.Config.ParsedTimeout,
		OutputLimit: r.Config.OutputLimit,
	}, nil
}

func (r *Router) validateBody(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return err
	}

	return r.Schema.Validate(inst)
}

// EstimateTokens approximates token usage for CLIs that report none
func EstimateTokens(text string) int {
	return len(text)/4 + 1
}

func environMap(env []string) map[string]string {
	res := make(map[string]string, len(env))
	for _, e := range env {
		k, v, ok := strings.Cut(e, "=")
		if ok {
			res[k] = v
		}
	}

	return res
}
