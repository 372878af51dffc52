// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"time"
)

// OutcomeKind is the tag of an ExecutionOutcome
type OutcomeKind int

const (
	// OutcomeCompleted means the process exited on its own, possibly non-zero
	OutcomeCompleted OutcomeKind = iota

	// OutcomeTimedOut means the deadline fired and the process group was killed
	OutcomeTimedOut

	// OutcomeCancelled means the caller withdrew interest and the process group was killed
	OutcomeCancelled

	// OutcomeLaunchFailed means the process could never be started
	OutcomeLaunchFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timedout"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeLaunchFailed:
		return "launchfailed"
	default:
		return "unknown"
	}
}

// ExecutionOutcome is the single result of an invocation. For every kind other
// than OutcomeCompleted the process and its descendants are already dead by
// the time the outcome is observable.
type ExecutionOutcome struct {
	Kind            OutcomeKind   `json:"kind"`
	ExitCode        int           `json:"exit_code"`
	Stdout          []byte        `json:"stdout"`
	Stderr          []byte        `json:"stderr"`
	StdoutTruncated bool          `json:"stdout_truncated,omitempty"`
	StderrTruncated bool          `json:"stderr_truncated,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	Runtime         time.Duration `json:"runtime"`
}

func (o *ExecutionOutcome) String() string {
	switch o.Kind {
	case OutcomeCompleted:
		return fmt.Sprintf("completed exitcode=%d runtime=%v", o.ExitCode, o.Runtime)
	case OutcomeLaunchFailed:
		return fmt.Sprintf("launchfailed reason=%q", o.Reason)
	default:
		return fmt.Sprintf("%s runtime=%v", o.Kind, o.Runtime)
	}
}

// Err maps failure kinds onto the matching sentinel error, Completed
// outcomes have no error regardless of exit code
func (o *ExecutionOutcome) Err() error {
	switch o.Kind {
	case OutcomeTimedOut:
		return ErrTimedOut
	case OutcomeCancelled:
		return ErrCancelled
	case OutcomeLaunchFailed:
		return fmt.Errorf("%w: %s", ErrLaunchFailed, o.Reason)
	default:
		return nil
	}
}

// LogStatus logs the outcome at a level matching its severity
func (o *ExecutionOutcome) LogStatus(log Logger, args ...any) {
	args = append(args, "runtime", o.Runtime.Truncate(time.Millisecond))

	switch o.Kind {
	case OutcomeCompleted:
		if o.ExitCode == 0 {
			log.Info("invocation completed", append(args, "exitcode", o.ExitCode)...)
		} else {
			log.Warn("invocation completed with errors", append(args, "exitcode", o.ExitCode)...)
		}
	case OutcomeLaunchFailed:
		log.Error("invocation could not be launched", append(args, "reason", o.Reason)...)
	default:
		log.Warn(fmt.Sprintf("invocation %s", o.Kind), args...)
	}
}
