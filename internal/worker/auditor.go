package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// Reconciler recomputes stored paid amounts from payment records, one page of orders at a time.
type Reconciler interface {
	ReconcileBatch(ctx context.Context, afterID int64, limit int) ([]model.Reconciliation, int64, error)
}

// SweepResult summarises one pass over every order.
type SweepResult struct {
	Checked  int
	Repaired int
	Overpaid int
}

// BalanceAuditor periodically sweeps all orders and repairs drifted paid amounts.
type BalanceAuditor struct {
	reconciler Reconciler
	interval   time.Duration
	batchSize  int
	logger     *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewBalanceAuditor constructs the periodic balance auditor.
func NewBalanceAuditor(reconciler Reconciler, interval time.Duration, batchSize int, logger *slog.Logger) *BalanceAuditor {
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &BalanceAuditor{
		reconciler: reconciler,
		interval:   interval,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Start launches the background sweep loop.
func (a *BalanceAuditor) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.loop(runCtx)
}

// Stop waits for the running sweep to finish.
func (a *BalanceAuditor) Stop() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *BalanceAuditor) loop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := a.Sweep(ctx)
			if err != nil && ctx.Err() == nil {
				a.logger.Error("balance audit failed", slog.String("error", err.Error()))
				continue
			}
			if result.Repaired > 0 || result.Overpaid > 0 {
				a.logger.Warn("balance audit found drift",
					slog.Int("checked", result.Checked),
					slog.Int("repaired", result.Repaired),
					slog.Int("overpaid", result.Overpaid),
				)
			} else {
				a.logger.Debug("balance audit clean", slog.Int("checked", result.Checked))
			}
		}
	}
}

// Sweep walks every order once, page by page.
func (a *BalanceAuditor) Sweep(ctx context.Context) (SweepResult, error) {
	var (
		result SweepResult
		cursor int64
	)
	for {
		page, next, err := a.reconciler.ReconcileBatch(ctx, cursor, a.batchSize)
		for _, r := range page {
			result.Checked++
			if r.Repaired {
				result.Repaired++
			}
			if r.Overpaid {
				result.Overpaid++
			}
		}
		if err != nil {
			return result, err
		}
		if next == 0 {
			return result, nil
		}
		cursor = next
	}
}
