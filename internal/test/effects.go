package test

import (
	"context"
	"slices"
	"sync"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// NotifierStub records notifications instead of delivering them.
type NotifierStub struct {
	Err error

	mu   sync.Mutex
	sent []model.Notification
}

// Notify records n and returns the configured error.
func (s *NotifierStub) Notify(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.Err
}

// Sent returns a copy of every recorded notification.
func (s *NotifierStub) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sent)
}

// OfKind returns recorded notifications of the given kind.
func (s *NotifierStub) OfKind(kind model.NotificationKind) []model.Notification {
	var out []model.Notification
	for _, n := range s.Sent() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// AuditLoggerStub keeps audit entries in memory.
type AuditLoggerStub struct {
	Err error

	mu      sync.Mutex
	entries []model.AuditEntry
}

// Record stores entry and returns the configured error.
func (s *AuditLoggerStub) Record(ctx context.Context, entry model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of the recorded entries.
func (s *AuditLoggerStub) Entries() []model.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Actions lists the recorded actions in order.
func (s *AuditLoggerStub) Actions() []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Action)
	}
	return out
}
