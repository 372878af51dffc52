// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUtil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal/Util")
}

var _ = Describe("Util", func() {
	Describe("ExecutableInPath", func() {
		It("Should find executables on the path", func() {
			path, ok, err := ExecutableInPath("sh")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(path).ToNot(BeEmpty())
		})

		It("Should report missing executables", func() {
			_, ok, err := ExecutableInPath("definitely-not-installed-anywhere")
			Expect(err).To(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("FileExists", func() {
		It("Should detect files and directories", func() {
			dir := GinkgoT().TempDir()
			file := filepath.Join(dir, "x")
			Expect(os.WriteFile(file, []byte("x"), 0644)).To(Succeed())

			Expect(FileExists(file)).To(BeTrue())
			Expect(FileExists(filepath.Join(dir, "missing"))).To(BeFalse())

			Expect(IsDirectory(dir)).To(BeTrue())
			Expect(IsDirectory(file)).To(BeFalse())
		})
	})

	Describe("Sha256HashBytes", func() {
		It("Should hex encode the digest", func() {
			Expect(Sha256HashBytes([]byte(""))).To(Equal("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"))
		})
	})

	Describe("RedactCredential", func() {
		It("Should keep only a short suffix", func() {
			Expect(RedactCredential("sk-ant-abc123xyz9")).To(Equal("****xyz9"))
			Expect(RedactCredential("ab")).To(Equal("****"))
		})
	})
})
