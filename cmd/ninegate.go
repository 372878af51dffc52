// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/choria-io/appbuilder/builder"
	"github.com/choria-io/appbuilder/commands/exec"
	"github.com/choria-io/appbuilder/commands/parent"
	"github.com/choria-io/fisk"
	iu "github.com/ninegate/ninegate/internal/util"
)

var (
	ctx     context.Context
	debug   bool
	info    bool
	jsonLog bool
	Version = "development"
)

func main() {
	app := fisk.New("ninegate", "Routing proxy for hosted generative AI APIs")
	app.Version(Version)
	app.Author("https://github.com/ninegate/ninegate")

	app.Flag("debug", "Enable debug logging").UnNegatableBoolVar(&debug)
	app.Flag("info", "Enable info logging").UnNegatableBoolVar(&info)
	app.Flag("json-log", "Log JSON to standard error").UnNegatableBoolVar(&jsonLog)

	registerServeCommand(app)
	registerRunCommand(app)
	registerCheckCommand(app)

	ctx, _ = signal.NotifyContext(context.Background(), os.Interrupt)
	err := extendCli(app)
	if err != nil {
		log.Fatalf("Could not load CLI extensions: %s", err)
	}

	app.MustParseWithUsage(os.Args[1:])
}

func extendCli(app *fisk.Application) error {
	var path string
	var userFile = filepath.Join(xdg.ConfigHome, "ninegate", "cli-extension.yaml")
	var systemFile = "/etc/ninegate/cli-extension.yaml"

	if xdg.ConfigHome != "" {
		os.MkdirAll(filepath.Dir(userFile), 0755)
	}

	if iu.FileExists(userFile) {
		path = userFile
	} else if iu.FileExists(systemFile) {
		path = systemFile
	}

	if path == "" {
		return nil
	}

	def, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parent.MustRegister()
	exec.MustRegister()

	ext := app.Command("plugin", "External CLI plugin commands").Alias("ext")

	return builder.MountAsCommand(ctx, ext, def, nil)
}
