// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ninegate/ninegate/model"
)

// LogrusLogger adapts a logrus.Entry to model.Logger, used for JSON logs
// when the proxy feeds a log pipeline rather than a terminal
type LogrusLogger struct {
	log *logrus.Entry
}

var _ model.Logger = (*LogrusLogger)(nil)

// NewLogrusLogger wraps entry, slog style key/value args become logrus fields
func NewLogrusLogger(entry *logrus.Entry) *LogrusLogger {
	return &LogrusLogger{log: entry}
}

// fields folds slog style key/value args into logrus fields, a trailing
// key without a value is kept under the "!BADKEY" convention
func (s *LogrusLogger) fields(args ...any) logrus.Fields {
	fields := logrus.Fields{}

	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			fields["!BADKEY"] = key
			break
		}
		fields[key] = args[i+1]
	}

	return fields
}

// With returns a child logger carrying extra fields
func (s *LogrusLogger) With(args ...any) model.Logger {
	return NewLogrusLogger(s.log.WithFields(s.fields(args...)))
}

func (s *LogrusLogger) Debug(msg string, args ...any) { s.log.WithFields(s.fields(args...)).Debug(msg) }
func (s *LogrusLogger) Info(msg string, args ...any)  { s.log.WithFields(s.fields(args...)).Info(msg) }
func (s *LogrusLogger) Warn(msg string, args ...any)  { s.log.WithFields(s.fields(args...)).Warn(msg) }
func (s *LogrusLogger) Error(msg string, args ...any) { s.log.WithFields(s.fields(args...)).Error(msg) }
