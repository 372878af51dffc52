// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"github.com/ninegate/ninegate/model"
)

// Option is a functional option for configuring the proxy
type Option func(*Proxy) error

// WithLogger sets the logger to use
func WithLogger(log model.Logger) Option {
	return func(p *Proxy) error {
		p.log = log
		return nil
	}
}

// WithExecutor sets the execution engine to use
func WithExecutor(executor model.Executor) Option {
	return func(p *Proxy) error {
		p.executor = executor
		return nil
	}
}

// WithAuditStore sets the audit store to use
func WithAuditStore(store model.AuditStore) Option {
	return func(p *Proxy) error {
		p.audit = store
		return nil
	}
}

// WithBaseEnvironment sets the environment local invocations inherit,
// replacing the proxy's own environment
func WithBaseEnvironment(env []string) Option {
	return func(p *Proxy) error {
		p.baseEnv = env
		return nil
	}
}
