// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"errors"
	"os/exec"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/ninegate/ninegate/metrics"
	"github.com/ninegate/ninegate/model"
)

const reapPollInterval = 10 * time.Millisecond

// terminate escalates termination of the invocation's process group and
// blocks until exit is confirmed. SIGTERM is sent to the whole group first,
// after the grace window an unconditional SIGKILL follows, if even that does
// not produce exit confirmation within the ceiling ErrTerminationFailed is
// returned since a process may have leaked.
//
// waitCh carries the result of cmd.Wait from the supervision loop, receiving
// from it is what reaps the direct child.
func (i *invocation) terminate(waitCh <-chan error) error {
	pgid, err := syscall.Getpgid(i.pid)
	if err != nil {
		// the child is gone already but unreaped descendants cannot be
		// reached without a group id, wait for the child itself
		pgid = 0
	}

	i.signal(pgid, syscall.SIGTERM)

	grace := time.NewTimer(i.grace)
	defer grace.Stop()

	confirmed := false
	select {
	case <-waitCh:
		confirmed = true
	case <-grace.C:
		i.log.Warn("Process did not exit within grace window, killing process group", "pid", i.pid, "grace", i.grace)
		metrics.KillEscalationCount.WithLabelValues().Inc()
		i.signal(pgid, syscall.SIGKILL)
	}

	if !confirmed {
		ceiling := time.NewTimer(i.ceiling)
		defer ceiling.Stop()

		select {
		case <-waitCh:
		case <-ceiling.C:
			i.log.Error("Process survived SIGKILL beyond the escalation ceiling", "pid", i.pid, "ceiling", i.ceiling)
			return model.ErrTerminationFailed
		}
	}

	// the direct child is reaped, now confirm the rest of the group is gone
	if pgid > 0 {
		return i.reapGroup(pgid)
	}

	return nil
}

// reapGroup polls the process group with a null signal until no member
// answers, bounded by the escalation ceiling
func (i *invocation) reapGroup(pgid int) error {
	deadline := time.Now().Add(i.ceiling)

	for {
		err := syscall.Kill(-pgid, syscall.Signal(0))
		if errors.Is(err, syscall.ESRCH) {
			break
		}

		if time.Now().After(deadline) {
			i.log.Error("Process group still has live members after kill", "pgid", pgid)
			return model.ErrTerminationFailed
		}

		syscall.Kill(-pgid, syscall.SIGKILL)
		time.Sleep(reapPollInterval)
	}

	// cross-check against the process table, the group leader must be gone
	if alive, _ := process.PidExists(int32(i.pid)); alive {
		i.log.Error("Process still present in process table after group exit", "pid", i.pid)
		return model.ErrTerminationFailed
	}

	return nil
}

// signal delivers sig to the whole process group, falling back to the direct
// child when no group id could be resolved
func (i *invocation) signal(pgid int, sig syscall.Signal) {
	if pgid > 0 {
		syscall.Kill(-pgid, sig)
		return
	}

	if i.cmd != nil && i.cmd.Process != nil {
		i.cmd.Process.Signal(sig)
	}
}

// exitCode extracts the exit code from a Wait() error, signal exits map to
// 128 plus the signal number
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}

	return -1
}
