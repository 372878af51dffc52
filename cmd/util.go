// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/SladkyCitron/slogcolor"
	"github.com/sirupsen/logrus"

	iu "github.com/ninegate/ninegate/internal/util"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/proxy"
)

// logLevel maps the global verbosity flags onto config log levels
func logLevel() string {
	switch {
	case debug:
		return "debug"
	case info:
		return "info"
	default:
		return ""
	}
}

func newLogger() model.Logger {
	var level slog.Level

	switch {
	case debug:
		level = slog.LevelDebug
	case info:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	if jsonLog {
		ll := logrus.New()
		ll.SetOutput(os.Stderr)
		ll.SetFormatter(&logrus.JSONFormatter{})
		switch {
		case debug:
			ll.SetLevel(logrus.DebugLevel)
		case info:
			ll.SetLevel(logrus.InfoLevel)
		default:
			ll.SetLevel(logrus.WarnLevel)
		}

		return proxy.NewLogrusLogger(logrus.NewEntry(ll))
	}

	if iu.IsTerminal() {
		return proxy.NewSlogLogger(slog.New(slogcolor.NewHandler(os.Stdout, &slogcolor.Options{Level: level})))
	}

	return proxy.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// dotEnvData builds the environment local invocations inherit, optionally
// overlaying a .env file from the working directory
func dotEnvData(readEnv bool, log model.Logger) ([]string, error) {
	environ := os.Environ()
	re := regexp.MustCompile(`^(.+?)="*(.+)"*$`)

	if !readEnv {
		return environ, nil
	}

	file, err := filepath.Abs(".env")
	if err != nil {
		return nil, err
	}

	if !iu.FileExists(file) {
		return environ, nil
	}

	log.With("file", file).Info("Reading environment variables from .env file")

	env, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer env.Close()

	scanner := bufio.NewScanner(env)
	for scanner.Scan() {
		line := scanner.Text()
		if re.MatchString(line) {
			environ = append(environ, line)
		}
	}

	return environ, nil
}
