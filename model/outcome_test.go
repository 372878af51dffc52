// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExecutionOutcome", func() {
	Describe("Err", func() {
		It("Should not error for completed outcomes regardless of exit code", func() {
			outcome := &ExecutionOutcome{Kind: OutcomeCompleted, ExitCode: 1}
			Expect(outcome.Err()).ToNot(HaveOccurred())
		})

		It("Should map failure kinds to sentinel errors", func() {
			Expect((&ExecutionOutcome{Kind: OutcomeTimedOut}).Err()).To(MatchError(ErrTimedOut))
			Expect((&ExecutionOutcome{Kind: OutcomeCancelled}).Err()).To(MatchError(ErrCancelled))

			err := (&ExecutionOutcome{Kind: OutcomeLaunchFailed, Reason: "no such file"}).Err()
			Expect(errors.Is(err, ErrLaunchFailed)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("no such file"))
		})
	})

	Describe("String", func() {
		It("Should render each kind", func() {
			Expect((&ExecutionOutcome{Kind: OutcomeCompleted, ExitCode: 2, Runtime: time.Second}).String()).To(Equal("completed exitcode=2 runtime=1s"))
			Expect((&ExecutionOutcome{Kind: OutcomeLaunchFailed, Reason: "gone"}).String()).To(ContainSubstring(`reason="gone"`))
			Expect((&ExecutionOutcome{Kind: OutcomeTimedOut, Runtime: time.Second}).String()).To(Equal("timedout runtime=1s"))
		})
	})
})

var _ = Describe("CommandSpec", func() {
	Describe("Validate", func() {
		It("Should require a command", func() {
			spec := &CommandSpec{Timeout: time.Second}
			Expect(spec.Validate()).To(MatchError(ErrCommandRequired))
		})

		It("Should require a timeout", func() {
			spec := &CommandSpec{Command: "claude"}
			Expect(spec.Validate()).To(MatchError(ErrTimeoutRequired))
		})

		It("Should accept a valid spec", func() {
			spec := &CommandSpec{Command: "claude", Timeout: time.Minute}
			Expect(spec.Validate()).To(Succeed())
		})
	})
})

var _ = Describe("VendorConfig", func() {
	Describe("Validate", func() {
		It("Should default the timeout", func() {
			cfg := &VendorConfig{}
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.ParsedTimeout).To(Equal(5 * time.Minute))
		})

		It("Should parse configured timeouts", func() {
			cfg := &VendorConfig{Timeout: "90s"}
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.ParsedTimeout).To(Equal(90 * time.Second))
		})

		It("Should reject unparsable timeouts", func() {
			cfg := &VendorConfig{Timeout: "sometime"}
			Expect(cfg.Validate()).ToNot(Succeed())
		})
	})
})
