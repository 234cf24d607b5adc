package test

import (
	"context"
	"sync"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// SenderStub mimics a notification transport.
type SenderStub struct {
	SendFn func(context.Context, model.Notification) error
	Sent   []model.Notification
	Calls  int
	mu     sync.Mutex
}

// Lock exposes internal mutex for external synchronization.
func (s *SenderStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SenderStub) Unlock() { s.mu.Unlock() }

// Send counts the attempt and records n when delivery succeeds.
func (s *SenderStub) Send(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	s.Calls++
	fn := s.SendFn
	s.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, n)
	return nil
}

// Delivered returns how many notifications were accepted.
func (s *SenderStub) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

// ReconcilerStub serves reconciliation pages in order. A page is followed by a
// cursor unless it is the last one.
type ReconcilerStub struct {
	Pages   [][]model.Reconciliation
	BatchFn func(context.Context, int64, int) ([]model.Reconciliation, int64, error)
	Cursors []int64
	mu      sync.Mutex
}

// ReconcileBatch records the cursor and returns the next configured page.
func (s *ReconcilerStub) ReconcileBatch(ctx context.Context, afterID int64, limit int) ([]model.Reconciliation, int64, error) {
	s.mu.Lock()
	s.Cursors = append(s.Cursors, afterID)
	call := len(s.Cursors)
	s.mu.Unlock()

	if s.BatchFn != nil {
		return s.BatchFn(ctx, afterID, limit)
	}
	if call > len(s.Pages) {
		return nil, 0, nil
	}
	page := s.Pages[call-1]
	var next int64
	if call < len(s.Pages) && len(page) > 0 {
		next = page[len(page)-1].OrderID
	}
	return page, next, nil
}

// CursorLog returns a copy of the cursors seen so far.
func (s *ReconcilerStub) CursorLog() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Cursors...)
}
