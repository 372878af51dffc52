// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package proxy routes hosted generative AI API requests, sentinel
// credentials run local CLI tools and everything else forwards upstream
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"sync"
	"time"

	"github.com/ninegate/ninegate/audit"
	"github.com/ninegate/ninegate/executor"
	"github.com/ninegate/ninegate/internal/registry"
	"github.com/ninegate/ninegate/metrics"
	"github.com/ninegate/ninegate/model"
	"github.com/ninegate/ninegate/routers"
)

var registerMetricsOnce sync.Once

// Proxy is the orchestrator tying routers, forwarders, the audit trail and
// the listener together
type Proxy struct {
	cfg        *Config
	log        model.Logger
	executor   model.Executor
	routers    map[string]model.Router
	forwarders map[string]*httputil.ReverseProxy
	allowlist  *Allowlist
	rules      *Rules
	audit      model.AuditStore
	baseEnv    []string
}

// New creates a proxy from a validated configuration
func New(cfg *Config, opts ...Option) (*Proxy, error) {
	routers.RegisterRouters()

	p := &Proxy{
		cfg:        cfg,
		routers:    map[string]model.Router{},
		forwarders: map[string]*httputil.ReverseProxy{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	var err error

	if p.log == nil {
		p.log, err = cfg.NewLogger()
		if err != nil {
			return nil, err
		}
	}

	if p.executor == nil {
		var eopts []executor.Option
		if cfg.graceDuration > 0 {
			eopts = append(eopts, executor.WithGraceWindow(cfg.graceDuration))
		}
		if cfg.ceilingDuration > 0 {
			eopts = append(eopts, executor.WithEscalationCeiling(cfg.ceilingDuration))
		}
		if cfg.OutputLimit > 0 {
			eopts = append(eopts, executor.WithOutputLimit(cfg.OutputLimit))
		}
		if len(p.baseEnv) > 0 {
			eopts = append(eopts, executor.WithBaseEnvironment(p.baseEnv))
		}

		p.executor, err = executor.New(p.log.With("component", "executor"), eopts...)
		if err != nil {
			return nil, err
		}
	}

	if p.audit == nil {
		store, err := audit.NewMemoryStore(p.log.With("component", "audit"))
		if err != nil {
			return nil, err
		}
		p.audit = store

		if cfg.Audit.NatsContext != "" {
			p.audit, err = audit.NewNatsPublisher(store, cfg.Audit.NatsContext, cfg.Audit.Subject, p.log.With("component", "audit"))
			if err != nil {
				return nil, err
			}
		}
	}

	p.allowlist, err = NewAllowlist(cfg.AllowedPaths)
	if err != nil {
		return nil, err
	}

	p.rules, err = NewRules(cfg.Rules)
	if err != nil {
		return nil, err
	}

	for _, vendor := range registry.Vendors() {
		vcfg, err := cfg.VendorConfig(vendor)
		if err != nil {
			return nil, err
		}

		p.routers[vendor], err = registry.NewRouter(vendor, vcfg, p.log.With("router", vendor), p.executor)
		if err != nil {
			return nil, err
		}

		p.forwarders[vendor], err = newForwarder(vendor, vcfg.Upstream, p.log)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run serves requests until the context ends, then drains and logs a
// session summary
func (p *Proxy) Run(ctx context.Context) error {
	err := p.audit.Start()
	if err != nil {
		return fmt.Errorf("could not start the audit store: %w", err)
	}

	registerMetricsOnce.Do(metrics.RegisterMetrics)
	metrics.ListenAndServe(p.cfg.MonitorPort, p.log)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port),
		Handler: p.handler(),
	}

	errs := make(chan error, 1)
	go func() {
		p.log.Info("Proxy listening", "host", p.cfg.Host, "port", p.cfg.Port)

		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = srv.Shutdown(sctx)
		if err != nil {
			p.log.Warn("Listener shutdown failed", "error", err)
		}

		if closer, ok := p.audit.(interface{ Close() }); ok {
			closer.Close()
		}

		summary, err := p.audit.Summary()
		if err == nil {
			p.log.Info(summary.String())
		}

		return nil
	}
}
