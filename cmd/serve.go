// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/choria-io/fisk"

	"github.com/ninegate/ninegate/proxy"
)

type serveCommand struct {
	cfg          string
	host         string
	port         int
	monitorPort  int
	allowedPaths []string
	addPaths     []string
	natsContext  string
	readEnv      bool
}

func registerServeCommand(app *fisk.Application) {
	cmd := &serveCommand{}

	serve := app.Command("serve", "Serve the routing proxy").Action(cmd.serveAction)
	serve.Flag("config", "Configuration file to use").ExistingFileVar(&cmd.cfg)
	serve.Flag("host", "Address to listen on").StringVar(&cmd.host)
	serve.Flag("port", "Port to listen on").IntVar(&cmd.port)
	serve.Flag("monitor-port", "Port to serve Prometheus metrics on").IntVar(&cmd.monitorPort)
	serve.Flag("allowed-paths", "Replace the allowed path patterns").PlaceHolder("REGEX").StringsVar(&cmd.allowedPaths)
	serve.Flag("allowed-path", "Add an allowed path pattern").PlaceHolder("REGEX").StringsVar(&cmd.addPaths)
	serve.Flag("context", "NATS Context to publish audit events with").Envar("NATS_CONTEXT").StringVar(&cmd.natsContext)
	serve.Flag("env", "Read environment variables from a .env file").UnNegatableBoolVar(&cmd.readEnv)
}

func (s *serveCommand) serveAction(_ *fisk.ParseContext) error {
	cfg, err := proxy.LoadConfig(s.cfg)
	if err != nil {
		return err
	}

	if s.host != "" {
		cfg.Host = s.host
	}
	if s.port > 0 {
		cfg.Port = s.port
	}
	if s.monitorPort > 0 {
		cfg.MonitorPort = s.monitorPort
	}
	if len(s.allowedPaths) > 0 {
		cfg.AllowedPaths = s.allowedPaths
	}
	cfg.AllowedPaths = append(cfg.AllowedPaths, s.addPaths...)
	if s.natsContext != "" {
		cfg.Audit.NatsContext = s.natsContext
	}
	if level := logLevel(); level != "" {
		cfg.LogLevel = level
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	var opts []proxy.Option

	logger := newLogger()
	if jsonLog {
		opts = append(opts, proxy.WithLogger(logger))
	}

	env, err := dotEnvData(s.readEnv, logger)
	if err != nil {
		return err
	}
	opts = append(opts, proxy.WithBaseEnvironment(env))

	p, err := proxy.New(cfg, opts...)
	if err != nil {
		return err
	}

	return p.Run(ctx)
}
