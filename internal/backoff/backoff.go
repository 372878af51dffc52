// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy is a series of backoff delays in milliseconds, attempts past
// the end of the series saturate at the last value
type Policy struct {
	Millis []int
}

var (
	// FiveSecStartGrace backs off to 5 seconds with no delay on the first try
	FiveSecStartGrace = Policy{Millis: []int{0, 250, 500, 1000, 2000, 3000, 4000, 5000}}

	// FiveSec backs off to 5 seconds
	FiveSec = Policy{Millis: []int{500, 1000, 2000, 3000, 4000, 5000}}

	// TwentySec backs off to 20 seconds
	TwentySec = Policy{Millis: []int{500, 1000, 2000, 4000, 8000, 16000, 20000}}

	// Default is the policy used when callers have no specific requirements
	Default = TwentySec
)

// Duration is the jittered delay for attempt n, zero entries stay zero
func (b Policy) Duration(n int) time.Duration {
	if n >= len(b.Millis) {
		n = len(b.Millis) - 1
	}

	return jitter(b.Millis[n])
}

// Sleep waits for d or until the context is done
func (b Policy) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySleep sleeps for the policy duration of attempt try
func (b Policy) TrySleep(ctx context.Context, try int) error {
	return b.Sleep(ctx, b.Duration(try))
}

// For calls cb with an incrementing attempt counter until it returns nil,
// sleeping per policy between attempts, honoring context cancellation
func (b Policy) For(ctx context.Context, cb func(try int) error) error {
	try := 1

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := cb(try); err == nil {
			return nil
		}

		if err := b.TrySleep(ctx, try); err != nil {
			return err
		}

		try++
	}
}

// AfterFunc schedules f after the policy duration for attempt try
func (b Policy) AfterFunc(try int, f func()) {
	time.AfterFunc(b.Duration(try), f)
}

// InterruptableSleep sleeps for d unless the context ends first
func InterruptableSleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return fmt.Errorf("sleep interrupted by context")
	}

	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sleep interrupted by context")
	}
}

func jitter(millis int) time.Duration {
	if millis == 0 {
		return 0
	}

	return time.Duration(millis/2+rand.Intn(millis)) * time.Millisecond
}
