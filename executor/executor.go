// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package executor runs external CLI tools on behalf of proxied API requests.
//
// Every invocation launches one process in its own process group, enforces a
// deadline and guarantees the process and its descendants are dead before a
// timeout or cancellation outcome is returned to the caller.
package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/ninegate/ninegate/model"
)

const (
	// DefaultGraceWindow is how long a process gets to exit after SIGTERM
	// before the whole group is killed unconditionally
	DefaultGraceWindow = 2 * time.Second

	// DefaultEscalationCeiling bounds how long we wait for exit confirmation
	// after SIGKILL, beyond this the invocation fails with
	// ErrTerminationFailed rather than risk a leaked process
	DefaultEscalationCeiling = 5 * time.Second
)

// Engine launches and supervises CLI invocations, it is safe for concurrent
// use and holds no per-invocation state
type Engine struct {
	log         model.Logger
	grace       time.Duration
	ceiling     time.Duration
	outputLimit int
	baseEnv     []string
}

// Option configures an Engine
type Option func(*Engine)

// WithGraceWindow sets how long processes get to exit after SIGTERM
func WithGraceWindow(d time.Duration) Option {
	return func(e *Engine) { e.grace = d }
}

// WithEscalationCeiling sets the bound on waiting for exit confirmation after SIGKILL
func WithEscalationCeiling(d time.Duration) Option {
	return func(e *Engine) { e.ceiling = d }
}

// WithOutputLimit sets the default captured output cap per stream
func WithOutputLimit(limit int) Option {
	return func(e *Engine) { e.outputLimit = limit }
}

// WithBaseEnvironment replaces the scrubbed base environment processes start with
func WithBaseEnvironment(env []string) Option {
	return func(e *Engine) { e.baseEnv = append([]string{}, env...) }
}

// New creates an executor Engine
func New(log model.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:         log,
		grace:       DefaultGraceWindow,
		ceiling:     DefaultEscalationCeiling,
		outputLimit: model.DefaultOutputLimit,
		baseEnv: []string{
			"PATH=" + os.Getenv("PATH"),
			"HOME=" + os.Getenv("HOME"),
			"LANG=C",
			"LC_ALL=C",
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// invocation is one CommandSpec to ExecutionOutcome lifecycle, it owns the
// process it launched until resolve is called
type invocation struct {
	spec    model.CommandSpec
	cmd     *exec.Cmd
	pid     int
	stdout  *collector
	stderr  *collector
	log     model.Logger
	grace   time.Duration
	ceiling time.Duration
	started time.Time

	cancelOnce sync.Once
	cancelCh   chan struct{}

	done    chan struct{}
	outcome *model.ExecutionOutcome
	err     error
}

var _ model.Invocation = (*invocation)(nil)

// Launch validates the spec, starts the process in a new process group and
// begins supervision. A spawn failure resolves the returned invocation
// immediately with a LaunchFailed outcome, an invalid spec is an error.
func (e *Engine) Launch(ctx context.Context, spec model.CommandSpec) (model.Invocation, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	limit := spec.OutputLimit
	if limit <= 0 {
		limit = e.outputLimit
	}

	inv := &invocation{
		spec:     spec,
		stdout:   newCollector(limit),
		stderr:   newCollector(limit),
		log:      e.log.With("command", spec.Command),
		grace:    e.grace,
		ceiling:  e.ceiling,
		cancelCh: make(chan struct{}),
		done:     make(chan struct{}),
	}

	command, err := exec.LookPath(spec.Command)
	if err != nil {
		inv.log.Error("CLI tool not found", "error", err)
		inv.resolve(&model.ExecutionOutcome{Kind: model.OutcomeLaunchFailed, Reason: err.Error()}, nil)
		return inv, nil
	}

	cmd := exec.Command(command, spec.Args...)

	cmd.Env = append(append([]string{}, e.baseEnv...), spec.Environment...)

	if spec.Cwd != "" {
		cmd.Dir = spec.Cwd
	} else {
		cmd.Dir = "/"
	}

	cmd.Stdin = bytes.NewReader(spec.Stdin)
	cmd.Stdout = inv.stdout
	cmd.Stderr = inv.stderr

	// a new process group so escalating termination reaches descendants
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	inv.started = time.Now()

	err = cmd.Start()
	if err != nil {
		inv.log.Error("Could not start CLI tool", "error", err)
		inv.resolve(&model.ExecutionOutcome{Kind: model.OutcomeLaunchFailed, Reason: err.Error()}, nil)
		return inv, nil
	}

	inv.cmd = cmd
	inv.pid = cmd.Process.Pid

	inv.log.Debug("Started CLI tool", "pid", inv.pid, "args", spec.Args, "timeout", spec.Timeout)

	go inv.supervise(ctx)

	return inv, nil
}

// Execute is Launch followed by Wait
func (e *Engine) Execute(ctx context.Context, spec model.CommandSpec) (*model.ExecutionOutcome, error) {
	inv, err := e.Launch(ctx, spec)
	if err != nil {
		return nil, err
	}

	return inv.Wait()
}

// supervise races process completion against the deadline and both
// cancellation triggers, all termination flows through terminate so there is
// exactly one kill path
func (i *invocation) supervise(ctx context.Context) {
	waitCh := make(chan error, 1)
	go func() { waitCh <- i.cmd.Wait() }()

	deadline := time.NewTimer(i.spec.Timeout)
	defer deadline.Stop()

	select {
	case werr := <-waitCh:
		i.resolve(i.snapshotOutcome(model.OutcomeCompleted, exitCode(werr)), nil)

	case <-deadline.C:
		i.log.Warn("CLI tool exceeded its timeout", "pid", i.pid, "timeout", i.spec.Timeout)
		i.resolveKilled(model.OutcomeTimedOut, waitCh)

	case <-i.cancelCh:
		i.log.Debug("Invocation cancelled by caller", "pid", i.pid)
		i.resolveKilled(model.OutcomeCancelled, waitCh)

	case <-ctx.Done():
		i.log.Debug("Invocation context cancelled", "pid", i.pid)
		i.resolveKilled(model.OutcomeCancelled, waitCh)
	}
}

// resolveKilled terminates the process group then resolves with partial
// output, a failed termination resolves with an error instead of an outcome
func (i *invocation) resolveKilled(kind model.OutcomeKind, waitCh <-chan error) {
	err := i.terminate(waitCh)
	if err != nil {
		i.resolve(nil, err)
		return
	}

	i.resolve(i.snapshotOutcome(kind, 0), nil)
}

func (i *invocation) snapshotOutcome(kind model.OutcomeKind, exit int) *model.ExecutionOutcome {
	stdout, stdoutTrunc := i.stdout.Snapshot()
	stderr, stderrTrunc := i.stderr.Snapshot()

	return &model.ExecutionOutcome{
		Kind:            kind,
		ExitCode:        exit,
		Stdout:          stdout,
		Stderr:          stderr,
		StdoutTruncated: stdoutTrunc,
		StderrTruncated: stderrTrunc,
		Runtime:         time.Since(i.started),
	}
}

// resolve delivers the outcome exactly once, no outcome is ever delivered
// while the process could still be running
func (i *invocation) resolve(outcome *model.ExecutionOutcome, err error) {
	i.outcome = outcome
	i.err = err
	close(i.done)
}

// Wait blocks until the invocation resolves
func (i *invocation) Wait() (*model.ExecutionOutcome, error) {
	<-i.done
	return i.outcome, i.err
}

// Cancel requests termination, it is idempotent and a no-op after resolution
func (i *invocation) Cancel() {
	i.cancelOnce.Do(func() { close(i.cancelCh) })
}

// Pid returns the process id of the child, 0 when it never started
func (i *invocation) Pid() int {
	return i.pid
}
