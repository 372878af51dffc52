// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"log/slog"

	"github.com/ninegate/ninegate/model"
)

// SlogLogger adapts a slog.Logger to model.Logger, it is what the proxy
// constructs by default based on the configured log level
type SlogLogger struct {
	log *slog.Logger
}

var _ model.Logger = (*SlogLogger)(nil)

// NewSlogLogger wraps log, key/value args pass through unchanged
func NewSlogLogger(log *slog.Logger) *SlogLogger {
	return &SlogLogger{log: log}
}

// With returns a child logger carrying extra key/value pairs
func (s *SlogLogger) With(args ...any) model.Logger {
	return NewSlogLogger(s.log.With(args...))
}

func (s *SlogLogger) Debug(msg string, args ...any) { s.log.Debug(msg, args...) }
func (s *SlogLogger) Info(msg string, args ...any)  { s.log.Info(msg, args...) }
func (s *SlogLogger) Warn(msg string, args ...any)  { s.log.Warn(msg, args...) }
func (s *SlogLogger) Error(msg string, args ...any) { s.log.Error(msg, args...) }
