// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/synadia-io/orbit.go/natscontext"

	"github.com/ninegate/ninegate/internal/backoff"
	"github.com/ninegate/ninegate/model"
)

// DefaultSubjectPrefix is where audit events are published unless configured otherwise
const DefaultSubjectPrefix = "ninegate.audit"

const connectTimeout = 30 * time.Second

// NatsPublisher wraps another store and additionally publishes every event
// as JSON to a NATS subject per vendor, publishing is best effort so a broker
// outage never blocks request handling
type NatsPublisher struct {
	inner       model.AuditStore
	natsContext string
	prefix      string
	log         model.Logger
	nc          *nats.Conn
	connectFn   func(string, ...nats.Option) (*nats.Conn, error)
	mu          sync.Mutex
}

// NewNatsPublisher creates a publisher around inner using a named NATS
// context from the standard context store
func NewNatsPublisher(inner model.AuditStore, natsCtx string, prefix string, log model.Logger) (*NatsPublisher, error) {
	if inner == nil {
		return nil, fmt.Errorf("an inner audit store is required")
	}
	if natsCtx == "" {
		return nil, fmt.Errorf("a nats context name is required")
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &NatsPublisher{
		inner:       inner,
		natsContext: natsCtx,
		prefix:      prefix,
		log:         log,
		connectFn: func(name string, opts ...nats.Option) (*nats.Conn, error) {
			nc, _, err := natscontext.Connect(name, opts...)
			return nc, err
		},
	}, nil
}

// Start starts the inner store and connects to the broker, connection
// attempts back off and give up after the connect timeout
func (s *NatsPublisher) Start() error {
	err := s.inner.Start()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	err = backoff.FiveSec.For(ctx, func(try int) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.nc, err = s.connectFn(s.natsContext,
			nats.Name("ninegate audit publisher"),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			s.log.Warn("Could not connect to the audit broker", "context", s.natsContext, "try", try, "error", err)
		}

		return err
	})
	if err != nil {
		return fmt.Errorf("could not connect audit publisher: %w", err)
	}

	s.log.Info("Audit publisher connected", "context", s.natsContext, "prefix", s.prefix)

	return nil
}

// RecordEvent records the event in the inner store and publishes it, broker
// failures are logged but never fail the record
func (s *NatsPublisher) RecordEvent(event model.AuditEvent) error {
	err := s.inner.RecordEvent(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	nc := s.nc
	s.mu.Unlock()

	if nc == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("Could not encode audit event", "event", event.AuditEventID(), "error", err)
		return nil
	}

	err = nc.Publish(s.subjectFor(event), body)
	if err != nil {
		s.log.Warn("Could not publish audit event", "event", event.AuditEventID(), "error", err)
	}

	return nil
}

// AllEvents returns all events recorded in the inner store
func (s *NatsPublisher) AllEvents() ([]model.AuditEvent, error) {
	return s.inner.AllEvents()
}

// Summary builds a summary from the inner store
func (s *NatsPublisher) Summary() (*model.InvocationSummary, error) {
	return s.inner.Summary()
}

// Close drains the broker connection
func (s *NatsPublisher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nc != nil {
		s.nc.Close()
		s.nc = nil
	}
}

func (s *NatsPublisher) subjectFor(event model.AuditEvent) string {
	if inv, ok := event.(*model.InvocationEvent); ok && inv.Vendor != "" {
		return fmt.Sprintf("%s.%s", s.prefix, inv.Vendor)
	}

	return s.prefix
}
