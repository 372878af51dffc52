// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/choria-io/fisk"

	"github.com/ninegate/ninegate/executor"
	"github.com/ninegate/ninegate/internal/registry"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/routers"
)

type runCommand struct {
	vendor  string
	model   string
	prompt  string
	system  string
	command string
	cwd     string
	timeout string
	readEnv bool
}

func registerRunCommand(app *fisk.Application) {
	cmd := &runCommand{}

	run := app.Command("run", "Run a single prompt through a local CLI tool").Action(cmd.runAction)
	run.Arg("vendor", "Vendor API shape to use").Required().EnumVar(&cmd.vendor, model.AnthropicVendor, model.OpenAIVendor, model.GeminiVendor)
	run.Arg("model", "Model name to request").Required().StringVar(&cmd.model)
	run.Arg("prompt", "Prompt to send").Required().StringVar(&cmd.prompt)
	run.Flag("system", "System prompt to include").StringVar(&cmd.system)
	run.Flag("command", "Override the CLI command to run").StringVar(&cmd.command)
	run.Flag("cwd", "Working directory for the invocation").ExistingDirVar(&cmd.cwd)
	run.Flag("timeout", "Time the invocation may run for").Default("5m").StringVar(&cmd.timeout)
	run.Flag("env", "Read environment variables from a .env file").UnNegatableBoolVar(&cmd.readEnv)
}

func (r *runCommand) runAction(_ *fisk.ParseContext) error {
	routers.RegisterRouters()

	logger := newLogger()

	env, err := dotEnvData(r.readEnv, logger)
	if err != nil {
		return err
	}

	engine, err := executor.New(logger, executor.WithBaseEnvironment(env))
	if err != nil {
		return err
	}

	vcfg := model.VendorConfig{
		Command: r.command,
		Cwd:     r.cwd,
		Timeout: r.timeout,
	}

	router, err := registry.NewRouter(r.vendor, vcfg, logger, engine)
	if err != nil {
		return err
	}

	body, err := r.requestBody()
	if err != nil {
		return err
	}

	resp, err := router.Generate(ctx, &model.ProxyRequest{
		Vendor: r.vendor,
		Model:  r.model,
		Body:   body,
	})
	if err != nil {
		return err
	}

	fmt.Println(string(resp.Body))

	if resp.Status != 200 {
		return fmt.Errorf("invocation failed with status %d", resp.Status)
	}

	return nil
}

// requestBody builds a minimal vendor shaped request around the prompt
func (r *runCommand) requestBody() ([]byte, error) {
	switch r.vendor {
	case model.GeminiVendor:
		req := map[string]any{
			"contents": []map[string]any{
				{"role": "user", "parts": []map[string]any{{"text": r.prompt}}},
			},
		}
		if r.system != "" {
			req["systemInstruction"] = map[string]any{
				"parts": []map[string]any{{"text": r.system}},
			}
		}
		return json.Marshal(req)

	default:
		messages := []map[string]any{}
		if r.system != "" && r.vendor == model.OpenAIVendor {
			messages = append(messages, map[string]any{"role": "system", "content": r.system})
		}
		messages = append(messages, map[string]any{"role": "user", "content": r.prompt})

		req := map[string]any{
			"model":    r.model,
			"messages": messages,
		}
		if r.vendor == model.AnthropicVendor {
			req["max_tokens"] = 1024
			if r.system != "" {
				req["system"] = r.system
			}
		}
		return json.Marshal(req)
	}
}
