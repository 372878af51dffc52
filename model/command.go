// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"time"
)

// DefaultOutputLimit caps how much of each output stream is captured, the
// process may write more but the excess is discarded rather than buffered
const DefaultOutputLimit = 10 * 1024 * 1024

// CommandSpec describes a single external CLI invocation. A spec is owned by
// exactly one invocation and must not be reused once launched.
type CommandSpec struct {
	// Command is the executable to run, resolved against PATH when relative
	Command string `json:"command" yaml:"command"`

	// Args are passed to the command in order
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Stdin is written to the process standard input before it is closed
	Stdin []byte `json:"-" yaml:"-"`

	// Cwd is the working directory for the process, defaults to the os temp dir
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty"`

	// Environment is appended to a scrubbed base environment as KEY=value pairs
	Environment []string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// Timeout is the maximum wall-clock duration the process may run for
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// OutputLimit caps captured bytes per stream, DefaultOutputLimit when zero
	OutputLimit int `json:"output_limit,omitempty" yaml:"output_limit,omitempty"`
}

// Validate checks the spec is executable
func (s *CommandSpec) Validate() error {
	if s.Command == "" {
		return ErrCommandRequired
	}

	if s.Timeout <= 0 {
		return ErrTimeoutRequired
	}

	return nil
}
