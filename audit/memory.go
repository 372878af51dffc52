// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package audit records the invocation history of a proxy run
package audit

import (
	"sync"

	"github.com/ninegate/ninegate/model"
)

// MemoryStore stores audit events in memory for one proxy run
type MemoryStore struct {
	events []model.AuditEvent
	log    model.Logger
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory audit store
func NewMemoryStore(logger model.Logger) (*MemoryStore, error) {
	return &MemoryStore{
		log:    logger,
		events: make([]model.AuditEvent, 0),
	}, nil
}

// Start clears the event log and records a fresh session start marker
func (s *MemoryStore) Start() error {
	s.mu.Lock()
	s.events = make([]model.AuditEvent, 0)
	s.mu.Unlock()

	s.log.Info("Starting audit session", "store", "memory")

	return s.RecordEvent(model.NewProxyStartEvent())
}

// RecordEvent appends an event to the session
func (s *MemoryStore) RecordEvent(event model.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)

	return nil
}

// AllEvents returns all events in the session in time order
func (s *MemoryStore) AllEvents() ([]model.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventsCopy := make([]model.AuditEvent, len(s.events))
	copy(eventsCopy, s.events)

	return eventsCopy, nil
}

// Summary builds a statistical summary of the session so far
func (s *MemoryStore) Summary() (*model.InvocationSummary, error) {
	events, err := s.AllEvents()
	if err != nil {
		return nil, err
	}

	return model.BuildInvocationSummary(events), nil
}
