// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("collector", func() {
	It("Should accept writes within the limit unchanged", func() {
		c := newCollector(64)

		n, err := c.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(5))

		data, truncated := c.Snapshot()
		Expect(string(data)).To(Equal("hello"))
		Expect(truncated).To(BeFalse())
	})

	It("Should keep draining after the cap and report truncation", func() {
		c := newCollector(8)

		n, err := c.Write([]byte("0123456789"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(10))

		// the writer must keep seeing success so the pipe never stalls
		n, err = c.Write([]byte("more"))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(4))

		data, truncated := c.Snapshot()
		Expect(string(data)).To(Equal("01234567"))
		Expect(truncated).To(BeTrue())
	})

	It("Should return independent snapshots", func() {
		c := newCollector(64)

		_, err := c.Write([]byte("aa"))
		Expect(err).ToNot(HaveOccurred())

		first, _ := c.Snapshot()
		_, err = c.Write([]byte("bb"))
		Expect(err).ToNot(HaveOccurred())

		Expect(string(first)).To(Equal("aa"))

		second, _ := c.Snapshot()
		Expect(string(second)).To(Equal("aabb"))
	})

	It("Should tolerate concurrent writers and readers", func() {
		c := newCollector(1024)
		wg := sync.WaitGroup{}

		for n := 0; n < 8; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for w := 0; w < 100; w++ {
					_, err := c.Write([]byte("x"))
					Expect(err).ToNot(HaveOccurred())
					c.Snapshot()
				}
			}()
		}

		wg.Wait()

		data, truncated := c.Snapshot()
		Expect(truncated).To(BeFalse())
		Expect(bytes.Count(data, []byte("x"))).To(Equal(800))
	})
})
