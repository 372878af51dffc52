// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package routers registers the built in vendor routers
package routers

import (
	"sync"

	"github.com/ninegate/ninegate/routers/anthropic"
	"github.com/ninegate/ninegate/routers/gemini"
	"github.com/ninegate/ninegate/routers/openai"
)

var once sync.Once

// RegisterRouters registers all built in vendor routers with the registry
func RegisterRouters() {
	once.Do(func() {
		anthropic.Register()
		openai.Register()
		gemini.Register()
	})
}
