// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestModel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Model")
}

var _ = Describe("InvocationSummary", func() {
	Describe("BuildInvocationSummary", func() {
		It("Should build a correct summary from events", func() {
			startEvent := NewProxyStartEvent()
			startEvent.TimeStamp = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

			events := []AuditEvent{
				startEvent,
			}

			completed := NewInvocationEvent(AnthropicVendor, "claude-sonnet-4-5")
			completed.Mode = ModeLocal
			completed.Outcome = OutcomeCompleted.String()
			completed.TimeStamp = time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC)
			completed.Runtime = 5 * time.Second
			events = append(events, completed)

			failed := NewInvocationEvent(AnthropicVendor, "claude-sonnet-4-5")
			failed.Mode = ModeLocal
			failed.Outcome = OutcomeCompleted.String()
			failed.ExitCode = 1
			failed.TimeStamp = time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
			failed.Runtime = 2 * time.Second
			events = append(events, failed)

			timedOut := NewInvocationEvent(OpenAIVendor, "gpt-5")
			timedOut.Mode = ModeLocal
			timedOut.Outcome = OutcomeTimedOut.String()
			timedOut.Error = ErrTimedOut.Error()
			timedOut.TimeStamp = time.Date(2026, 1, 1, 12, 0, 12, 0, time.UTC)
			timedOut.Runtime = time.Minute
			events = append(events, timedOut)

			cancelled := NewInvocationEvent(GeminiVendor, "gemini-2.5-pro")
			cancelled.Mode = ModeLocal
			cancelled.Outcome = OutcomeCancelled.String()
			cancelled.TimeStamp = time.Date(2026, 1, 1, 12, 0, 15, 0, time.UTC)
			cancelled.Truncated = true
			events = append(events, cancelled)

			forwarded := NewInvocationEvent(AnthropicVendor, "claude-opus-4-1")
			forwarded.Mode = ModeForward
			forwarded.TimeStamp = time.Date(2026, 1, 1, 12, 0, 20, 0, time.UTC)
			events = append(events, forwarded)

			summary := BuildInvocationSummary(events)

			Expect(summary.TotalRequests).To(Equal(5))
			Expect(summary.LocalRequests).To(Equal(4))
			Expect(summary.ForwardedCount).To(Equal(1))
			Expect(summary.CompletedCount).To(Equal(2))
			Expect(summary.NonZeroExitCount).To(Equal(1))
			Expect(summary.TimedOutCount).To(Equal(1))
			Expect(summary.CancelledCount).To(Equal(1))
			Expect(summary.LaunchFailures).To(Equal(0))
			Expect(summary.TruncatedCount).To(Equal(1))
			Expect(summary.TotalErrors).To(Equal(1))
			Expect(summary.StartTime).To(Equal(startEvent.TimeStamp))
			Expect(summary.EndTime).To(Equal(forwarded.TimeStamp))
			Expect(summary.TotalDuration).To(Equal(20 * time.Second))
		})

		It("Should handle empty events", func() {
			summary := BuildInvocationSummary([]AuditEvent{})
			Expect(summary.TotalRequests).To(Equal(0))
			Expect(summary.TotalDuration).To(Equal(time.Duration(0)))
		})

		It("Should fall back to summed runtimes without a start event", func() {
			event := NewInvocationEvent(AnthropicVendor, "claude-sonnet-4-5")
			event.Mode = ModeLocal
			event.Outcome = OutcomeCompleted.String()
			event.TimeStamp = time.Time{}
			event.Runtime = 3 * time.Second

			summary := BuildInvocationSummary([]AuditEvent{event})
			Expect(summary.TotalDuration).To(Equal(3 * time.Second))
		})
	})

	Describe("InvocationEvent", func() {
		It("Should record outcomes", func() {
			event := NewInvocationEvent(AnthropicVendor, "claude-sonnet-4-5")
			event.RecordOutcome(&ExecutionOutcome{
				Kind:            OutcomeTimedOut,
				Runtime:         time.Second,
				StderrTruncated: true,
			})

			Expect(event.Outcome).To(Equal("timedout"))
			Expect(event.Runtime).To(Equal(time.Second))
			Expect(event.Truncated).To(BeTrue())
			Expect(event.Error).To(Equal(ErrTimedOut.Error()))
		})

		It("Should have unique ksuid event ids", func() {
			e1 := NewInvocationEvent(AnthropicVendor, "m")
			e2 := NewInvocationEvent(AnthropicVendor, "m")
			Expect(e1.AuditEventID()).ToNot(BeEmpty())
			Expect(e1.AuditEventID()).ToNot(Equal(e2.AuditEventID()))
		})
	})
})
