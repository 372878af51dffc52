// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package backoff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ninegate/ninegate/internal/backoff"
)

func TestBackoff(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal/Backoff")
}

var _ = Describe("Backoff", func() {
	var fastPolicy backoff.Policy

	BeforeEach(func() {
		fastPolicy = backoff.Policy{Millis: []int{1, 2, 3, 4, 5}}
	})

	Describe("Duration", func() {
		It("Should jitter around the configured delay", func() {
			policy := backoff.Policy{Millis: []int{100}}

			for range 10 {
				d := policy.Duration(0)
				Expect(d).To(BeNumerically(">=", 50*time.Millisecond))
				Expect(d).To(BeNumerically("<=", 150*time.Millisecond))
			}
		})

		It("Should saturate at the last delay", func() {
			policy := backoff.Policy{Millis: []int{10, 20, 30}}

			for range 10 {
				d := policy.Duration(10)
				Expect(d).To(BeNumerically(">=", 15*time.Millisecond))
				Expect(d).To(BeNumerically("<=", 45*time.Millisecond))
			}
		})

		It("Should keep zero delays at zero", func() {
			policy := backoff.Policy{Millis: []int{0, 100}}

			Expect(policy.Duration(0)).To(Equal(time.Duration(0)))
		})
	})

	Describe("Sleep", func() {
		It("Should sleep for the requested duration", func() {
			start := time.Now()
			err := fastPolicy.Sleep(context.Background(), 5*time.Millisecond)

			Expect(err).ToNot(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically(">=", 5*time.Millisecond))
		})

		It("Should be interrupted by context cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())

			go func() {
				time.Sleep(5 * time.Millisecond)
				cancel()
			}()

			start := time.Now()
			err := fastPolicy.Sleep(ctx, time.Second)

			Expect(err).To(Equal(context.Canceled))
			Expect(time.Since(start)).To(BeNumerically("<", 100*time.Millisecond))
		})
	})

	Describe("For", func() {
		It("Should stop when the callback succeeds", func() {
			attempts := 0

			err := fastPolicy.For(context.Background(), func(try int) error {
				attempts++
				if attempts >= 3 {
					return nil
				}
				return errors.New("not yet")
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(attempts).To(Equal(3))
		})

		It("Should pass an incrementing try counter", func() {
			var tries []int

			err := fastPolicy.For(context.Background(), func(try int) error {
				tries = append(tries, try)
				if len(tries) >= 4 {
					return nil
				}
				return errors.New("continue")
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tries).To(Equal([]int{1, 2, 3, 4}))
		})

		It("Should not call the callback on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			attempts := 0
			err := fastPolicy.For(ctx, func(try int) error {
				attempts++
				return errors.New("should not reach here")
			})

			Expect(err).To(Equal(context.Canceled))
			Expect(attempts).To(Equal(0))
		})
	})

	Describe("Predefined policies", func() {
		It("Should default to the twenty second policy", func() {
			Expect(backoff.Default.Millis).To(Equal(backoff.TwentySec.Millis))
			Expect(backoff.TwentySec.Millis[0]).To(Equal(500))
			Expect(backoff.TwentySec.Millis[len(backoff.TwentySec.Millis)-1]).To(Equal(20000))
		})
	})

	Describe("InterruptableSleep", func() {
		It("Should return immediately for zero durations", func() {
			start := time.Now()
			Expect(backoff.InterruptableSleep(context.Background(), 0)).To(Succeed())
			Expect(time.Since(start)).To(BeNumerically("<", 10*time.Millisecond))
		})

		It("Should error when the context ends first", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := backoff.InterruptableSleep(ctx, time.Second)
			Expect(err).To(MatchError("sleep interrupted by context"))
		})
	})
})
