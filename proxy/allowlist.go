// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"
	"regexp"
)

// Allowlist decides which request paths the proxy will serve
type Allowlist struct {
	patterns []*regexp.Regexp
}

// NewAllowlist compiles a list of regex patterns into an allowlist
func NewAllowlist(patterns []string) (*Allowlist, error) {
	if len(patterns) == 0 {
		patterns = DefaultAllowedPaths
	}

	list := &Allowlist{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed path pattern %q: %w", p, err)
		}

		list.patterns = append(list.patterns, re)
	}

	return list, nil
}

// Allows is true when any pattern matches the path
func (a *Allowlist) Allows(path string) bool {
	for _, re := range a.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
