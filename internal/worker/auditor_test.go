package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
	testhelpers "github.com/polkiloo/atelier/internal/test"
)

func TestNewBalanceAuditorDefaults(t *testing.T) {
	a := NewBalanceAuditor(&testhelpers.ReconcilerStub{}, 0, 0, testLogger())
	if a.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", a.batchSize)
	}
	if a.interval != time.Minute {
		t.Fatalf("expected interval default to 1m, got %v", a.interval)
	}
}

func TestSweepFollowsCursor(t *testing.T) {
	reconciler := &testhelpers.ReconcilerStub{Pages: [][]model.Reconciliation{
		{{OrderID: 1}, {OrderID: 2, Repaired: true}},
		{{OrderID: 5, Overpaid: true}, {OrderID: 7}},
		{{OrderID: 9, Repaired: true}},
	}}
	a := NewBalanceAuditor(reconciler, time.Hour, 2, testLogger())

	result, err := a.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != (SweepResult{Checked: 5, Repaired: 2, Overpaid: 1}) {
		t.Fatalf("unexpected result: %+v", result)
	}
	cursors := reconciler.CursorLog()
	if len(cursors) != 3 || cursors[0] != 0 || cursors[1] != 2 || cursors[2] != 7 {
		t.Fatalf("unexpected cursors: %v", cursors)
	}
}

func TestSweepReturnsPartialResultOnError(t *testing.T) {
	reconciler := &testhelpers.ReconcilerStub{BatchFn: func(context.Context, int64, int) ([]model.Reconciliation, int64, error) {
		return []model.Reconciliation{{OrderID: 1, Repaired: true}}, 0, context.Canceled
	}}
	a := NewBalanceAuditor(reconciler, time.Hour, 10, testLogger())

	result, err := a.Sweep(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if result.Checked != 1 || result.Repaired != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBalanceAuditorRunsOnTicker(t *testing.T) {
	reconciler := &testhelpers.ReconcilerStub{}
	a := NewBalanceAuditor(reconciler, 5*time.Millisecond, 10, testLogger())

	a.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(reconciler.CursorLog()) >= 2 })
	a.Stop()

	seen := len(reconciler.CursorLog())
	time.Sleep(20 * time.Millisecond)
	if len(reconciler.CursorLog()) != seen {
		t.Fatal("expected no sweeps after stop")
	}
	a.Stop()
}
