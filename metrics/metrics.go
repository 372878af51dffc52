// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ninegate/ninegate/model"
)

var (
	NameSpace = "ninegate"
	Subsystem = "proxy"

	// InvocationTime is a summary of the time taken by local CLI invocations
	InvocationTime = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_duration_seconds"),
		Help: "Time taken by local CLI invocations",
	}, []string{"vendor"})

	// InvocationCount counts local CLI invocations
	InvocationCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_count"),
		Help: "How many local CLI invocations were started",
	}, []string{"vendor"})

	// InvocationCompletedCount counts invocations that ran to completion
	InvocationCompletedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_completed_count"),
		Help: "How many local CLI invocations ran to completion",
	}, []string{"vendor"})

	// InvocationNonZeroCount counts completed invocations with non zero exit codes
	InvocationNonZeroCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_nonzero_count"),
		Help: "How many completed invocations exited non zero",
	}, []string{"vendor"})

	// InvocationTimeoutCount counts invocations that were terminated on timeout
	InvocationTimeoutCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_timeout_count"),
		Help: "How many invocations were terminated on timeout",
	}, []string{"vendor"})

	// InvocationCancelledCount counts invocations cancelled by callers
	InvocationCancelledCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_cancelled_count"),
		Help: "How many invocations were cancelled by callers",
	}, []string{"vendor"})

	// InvocationLaunchFailedCount counts invocations that never started
	InvocationLaunchFailedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_launch_failed_count"),
		Help: "How many invocations failed before the process started",
	}, []string{"vendor"})

	// InvocationTruncatedCount counts invocations with capped output
	InvocationTruncatedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "invocation_truncated_count"),
		Help: "How many invocations had output truncated at the cap",
	}, []string{"vendor"})

	// KillEscalationCount counts terminations that escalated to SIGKILL
	KillEscalationCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "kill_escalation_count"),
		Help: "How many terminations escalated past SIGTERM to SIGKILL",
	}, []string{})

	// TerminationFailedCount counts terminations that could not be confirmed
	TerminationFailedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "termination_failed_count"),
		Help: "How many process terminations could not be confirmed within the ceiling",
	}, []string{"vendor"})

	// ForwardedCount counts requests proxied to the hosted upstream
	ForwardedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "forwarded_count"),
		Help: "How many requests were forwarded to the hosted upstream",
	}, []string{"vendor"})

	// RejectedPathCount counts requests refused by the path allowlist
	RejectedPathCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "rejected_path_count"),
		Help: "How many requests were refused by the path allowlist",
	}, []string{})

	// RequestInvalidCount counts requests that failed schema validation
	RequestInvalidCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(NameSpace, Subsystem, "request_invalid_count"),
		Help: "How many requests failed body validation",
	}, []string{"vendor"})
)

func RegisterMetrics() {
	prometheus.MustRegister(InvocationTime)
	prometheus.MustRegister(InvocationCount)
	prometheus.MustRegister(InvocationCompletedCount)
	prometheus.MustRegister(InvocationNonZeroCount)
	prometheus.MustRegister(InvocationTimeoutCount)
	prometheus.MustRegister(InvocationCancelledCount)
	prometheus.MustRegister(InvocationLaunchFailedCount)
	prometheus.MustRegister(InvocationTruncatedCount)
	prometheus.MustRegister(KillEscalationCount)
	prometheus.MustRegister(TerminationFailedCount)
	prometheus.MustRegister(ForwardedCount)
	prometheus.MustRegister(RejectedPathCount)
	prometheus.MustRegister(RequestInvalidCount)
}

// RecordOutcome updates the per outcome counters for a finished invocation
func RecordOutcome(vendor string, outcome *model.ExecutionOutcome) {
	if outcome == nil {
		return
	}

	InvocationTime.WithLabelValues(vendor).Observe(outcome.Runtime.Seconds())

	switch outcome.Kind {
	case model.OutcomeCompleted:
		InvocationCompletedCount.WithLabelValues(vendor).Inc()
		if outcome.ExitCode != 0 {
			InvocationNonZeroCount.WithLabelValues(vendor).Inc()
		}
	case model.OutcomeTimedOut:
		InvocationTimeoutCount.WithLabelValues(vendor).Inc()
	case model.OutcomeCancelled:
		InvocationCancelledCount.WithLabelValues(vendor).Inc()
	case model.OutcomeLaunchFailed:
		InvocationLaunchFailedCount.WithLabelValues(vendor).Inc()
	}

	if outcome.StdoutTruncated || outcome.StderrTruncated {
		InvocationTruncatedCount.WithLabelValues(vendor).Inc()
	}
}

func ListenAndServe(port int, log model.Logger) {
	if port <= 0 {
		return
	}

	go func() {
		log.Info("Starting monitoring server", "port", port)
		http.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
		if err != nil {
			log.Error("HTTP Listener failed", "error", err)
		}
	}()
}
