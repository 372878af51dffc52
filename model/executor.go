// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
)

// Invocation is one request-to-process execution lifecycle. It is created by
// an Executor and owns the underlying process until Wait returns.
type Invocation interface {
	// Wait blocks until the invocation resolves and returns its outcome
	// exactly once, callers after the first receive the same values. A non
	// nil error is an internal fatal condition such as ErrTerminationFailed
	// and means the safety guarantees could not be honored.
	Wait() (*ExecutionOutcome, error)

	// Cancel requests termination of the invocation. It is idempotent and a
	// no-op once the invocation has resolved.
	Cancel()

	// Pid returns the process id of the child, 0 when it never started
	Pid() int
}

// Executor launches external CLI tools and supervises them to completion
type Executor interface {
	// Launch validates the spec and starts the process, the returned
	// invocation resolves when the process exits, times out or is cancelled.
	// A spawn failure resolves immediately with a LaunchFailed outcome.
	Launch(ctx context.Context, spec CommandSpec) (Invocation, error)

	// Execute is Launch followed by Wait
	Execute(ctx context.Context, spec CommandSpec) (*ExecutionOutcome, error)
}
