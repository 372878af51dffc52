// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"sync"
)

// collector drains one output stream of a running process into a capped
// buffer. Writes never fail and never block on a full buffer so the process
// can keep writing after the cap is reached, the excess is discarded.
//
// Snapshot is safe to call while the process is still writing, the timeout
// and cancellation paths use it to report partial output.
type collector struct {
	buf       bytes.Buffer
	limit     int
	discarded int64
	mu        sync.Mutex
}

func newCollector(limit int) *collector {
	return &collector{limit: limit}
}

func (c *collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.limit - c.buf.Len()
	switch {
	case room >= len(p):
		c.buf.Write(p)
	case room > 0:
		c.buf.Write(p[:room])
		c.discarded += int64(len(p) - room)
	default:
		c.discarded += int64(len(p))
	}

	// the writer always sees success else the stdlib copier would stop
	// draining the pipe and the process could block on a full pipe buffer
	return len(p), nil
}

// Snapshot returns a copy of the captured output and whether any of it was
// discarded due to the cap
func (c *collector) Snapshot() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())

	return out, c.discarded > 0
}
