// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/choria-io/fisk"

	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/proxy"
)

type checkCommand struct {
	cfg string
}

func registerCheckCommand(app *fisk.Application) {
	cmd := &checkCommand{}

	check := app.Command("check", "Check that the local CLI tools are installed").Action(cmd.checkAction)
	check.Flag("config", "Configuration file to use").ExistingFileVar(&cmd.cfg)
}

func (c *checkCommand) checkAction(_ *fisk.ParseContext) error {
	cfg, err := proxy.LoadConfig(c.cfg)
	if err != nil {
		return err
	}

	clis := map[string]string{
		model.AnthropicVendor: "claude",
		model.OpenAIVendor:    "codex",
		model.GeminiVendor:    "gemini",
	}

	missing := 0
	for _, vendor := range []string{model.AnthropicVendor, model.OpenAIVendor, model.GeminiVendor} {
		cli := clis[vendor]
		if vcfg, ok := cfg.Vendors[vendor]; ok && vcfg.Command != "" {
			cli = strings.Fields(vcfg.Command)[0]
		}

		path, err := exec.LookPath(cli)
		if err != nil {
			missing++
			fmt.Printf("%-10s %s: not found on PATH, local requests will fail\n", vendor, cli)
			continue
		}

		fmt.Printf("%-10s %s: %s%s\n", vendor, cli, path, cliVersion(path))
	}

	if missing == len(clis) {
		return fmt.Errorf("no local CLI tools found")
	}

	return nil
}

// cliVersion asks a CLI for its version, failures are not fatal since some
// tools need credentials even for --version
func cliVersion(path string) string {
	vctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(vctx, path, "--version").Output()
	if err != nil {
		return ""
	}

	version := strings.TrimSpace(string(out))
	if line, _, found := strings.Cut(version, "\n"); found {
		version = line
	}
	if version == "" {
		return ""
	}

	return fmt.Sprintf(" (%s)", version)
}
