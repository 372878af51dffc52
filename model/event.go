// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
)

const InvocationEventProtocol = "io.ninegate.v1.invocation.event"
const ProxyStartEventProtocol = "io.ninegate.v1.proxy.start"

// AuditEvent is any event an AuditStore can record
type AuditEvent interface {
	AuditEventID() string
	String() string
}

// AuditStore records the events of a proxy run
type AuditStore interface {
	Start() error
	RecordEvent(AuditEvent) error
	AllEvents() ([]AuditEvent, error)
	Summary() (*InvocationSummary, error)
}

// InvocationEvent records a single request routed through the proxy
type InvocationEvent struct {
	Protocol  string        `json:"protocol" yaml:"protocol"`
	EventID   string        `json:"event_id" yaml:"event_id"`
	TimeStamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Vendor    string        `json:"vendor" yaml:"vendor"`
	Model     string        `json:"model" yaml:"model"`
	Mode      string        `json:"mode" yaml:"mode"` // local or forward
	Outcome   string        `json:"outcome" yaml:"outcome"`
	ExitCode  int           `json:"exit_code" yaml:"exit_code"`
	Runtime   time.Duration `json:"runtime" yaml:"runtime"`
	Truncated bool          `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// ProxyStartEvent marks the start of a proxy audit session
type ProxyStartEvent struct {
	Protocol  string    `json:"protocol" yaml:"protocol"`
	EventID   string    `json:"event_id" yaml:"event_id"`
	TimeStamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func NewProxyStartEvent() *ProxyStartEvent {
	return &ProxyStartEvent{
		Protocol:  ProxyStartEventProtocol,
		EventID:   ksuid.New().String(),
		TimeStamp: time.Now().UTC(),
	}
}

func NewInvocationEvent(vendor string, model string) *InvocationEvent {
	return &InvocationEvent{
		Protocol:  InvocationEventProtocol,
		EventID:   ksuid.New().String(),
		TimeStamp: time.Now().UTC(),
		Vendor:    vendor,
		Model:     model,
	}
}

func (e *ProxyStartEvent) AuditEventID() string { return e.EventID }
func (e *ProxyStartEvent) String() string {
	return fmt.Sprintf("proxy session %s started %s", e.EventID, e.TimeStamp.Format(time.RFC3339))
}

func (e *InvocationEvent) AuditEventID() string { return e.EventID }

// RecordOutcome copies the relevant outcome fields into the event
func (e *InvocationEvent) RecordOutcome(outcome *ExecutionOutcome) {
	e.Outcome = outcome.Kind.String()
	e.ExitCode = outcome.ExitCode
	e.Runtime = outcome.Runtime
	e.Truncated = outcome.StdoutTruncated || outcome.StderrTruncated
	if err := outcome.Err(); err != nil {
		e.Error = err.Error()
	}
}

func (e *InvocationEvent) String() string {
	switch {
	case e.Error != "":
		return fmt.Sprintf("%s#%s %s mode=%s runtime=%v error=%v", e.Vendor, e.Model, e.Outcome, e.Mode, e.Runtime, e.Error)
	default:
		return fmt.Sprintf("%s#%s %s mode=%s exitcode=%d runtime=%v", e.Vendor, e.Model, e.Outcome, e.Mode, e.ExitCode, e.Runtime)
	}
}

// LogStatus logs the event at a level matching its severity
func (e *InvocationEvent) LogStatus(log Logger) {
	args := []any{
		"vendor", e.Vendor,
		"model", e.Model,
		"mode", e.Mode,
		"runtime", e.Runtime.Truncate(time.Millisecond),
	}

	switch e.Outcome {
	case OutcomeCompleted.String():
		log.Info(fmt.Sprintf("%s#%s completed", e.Vendor, e.Model), append(args, "exitcode", e.ExitCode)...)
	case "":
		log.Info(fmt.Sprintf("%s#%s forwarded", e.Vendor, e.Model), args...)
	default:
		log.Error(fmt.Sprintf("%s#%s %s", e.Vendor, e.Model, e.Outcome), append(args, "error", e.Error)...)
	}
}

// InvocationSummary provides a statistical summary of a proxy session
type InvocationSummary struct {
	StartTime        time.Time     `json:"start_time" yaml:"start_time"`
	EndTime          time.Time     `json:"end_time" yaml:"end_time"`
	TotalDuration    time.Duration `json:"total_duration" yaml:"total_duration"`
	TotalRequests    int           `json:"total_requests" yaml:"total_requests"`
	LocalRequests    int           `json:"local_requests" yaml:"local_requests"`
	ForwardedCount   int           `json:"forwarded_count" yaml:"forwarded_count"`
	CompletedCount   int           `json:"completed_count" yaml:"completed_count"`
	NonZeroExitCount int           `json:"non_zero_exit_count" yaml:"non_zero_exit_count"`
	TimedOutCount    int           `json:"timed_out_count" yaml:"timed_out_count"`
	CancelledCount   int           `json:"cancelled_count" yaml:"cancelled_count"`
	LaunchFailures   int           `json:"launch_failures" yaml:"launch_failures"`
	TruncatedCount   int           `json:"truncated_count" yaml:"truncated_count"`
	TotalErrors      int           `json:"total_errors" yaml:"total_errors"`
}

// BuildInvocationSummary creates a summary report from all events in a session
func BuildInvocationSummary(events []AuditEvent) *InvocationSummary {
	summary := &InvocationSummary{}
	var totalTime time.Duration

	for _, event := range events {
		if startEvent, ok := event.(*ProxyStartEvent); ok {
			summary.StartTime = startEvent.TimeStamp
			continue
		}

		invEvent, ok := event.(*InvocationEvent)
		if !ok {
			continue
		}

		totalTime += invEvent.Runtime
		summary.TotalRequests++

		if invEvent.TimeStamp.After(summary.EndTime) {
			summary.EndTime = invEvent.TimeStamp
		}

		if invEvent.Mode == ModeForward {
			summary.ForwardedCount++
			continue
		}

		summary.LocalRequests++

		switch invEvent.Outcome {
		case OutcomeCompleted.String():
			summary.CompletedCount++
			if invEvent.ExitCode != 0 {
				summary.NonZeroExitCount++
			}
		case OutcomeTimedOut.String():
			summary.TimedOutCount++
			summary.TotalErrors++
		case OutcomeCancelled.String():
			summary.CancelledCount++
		case OutcomeLaunchFailed.String():
			summary.LaunchFailures++
			summary.TotalErrors++
		}

		if invEvent.Truncated {
			summary.TruncatedCount++
		}
	}

	if !summary.StartTime.IsZero() && !summary.EndTime.IsZero() {
		summary.TotalDuration = summary.EndTime.Sub(summary.StartTime)
	} else {
		summary.TotalDuration = totalTime
	}

	return summary
}

// String returns a human-readable summary of the session
func (s *InvocationSummary) String() string {
	return fmt.Sprintf("Session: %d requests, %d local, %d forwarded, %d completed, %d timed out, %d cancelled, %d launch failures, duration=%v",
		s.TotalRequests, s.LocalRequests, s.ForwardedCount, s.CompletedCount, s.TimedOutCount, s.CancelledCount, s.LaunchFailures, s.TotalDuration)
}
