package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/atelier/internal/adapter/notifier"
	"github.com/polkiloo/atelier/internal/domain/model"
)

var (
	// ErrQueueFull is returned by Notify when the delivery queue has no room.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrStopped is returned by Notify after Stop.
	ErrStopped = errors.New("notification dispatcher stopped")
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
	maxRetryAfter      = 30 * time.Second
)

// Dispatcher delivers notifications in the background through a pool of workers.
// Notify never blocks the caller.
type Dispatcher struct {
	sender      notifier.Sender
	workers     int
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger

	jobs    chan model.Notification
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewDispatcher constructs notification worker pool.
func NewDispatcher(sender notifier.Sender, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sender:      sender,
		workers:     workers,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		logger:      logger,
		jobs:        make(chan model.Notification, queueSize),
	}
}

// Notify queues n for delivery.
func (d *Dispatcher) Notify(_ context.Context, n model.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.jobs <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches background delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop refuses new notifications, delivers what is already queued and waits for the workers.
// Cancelling ctx abandons the remaining queue.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	cancel := d.cancel
	d.mu.Unlock()

	if cancel == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		cancel()
		<-done
	}
	cancel()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for n := range d.jobs {
		if ctx.Err() != nil {
			d.logger.Warn("notification dropped on shutdown", slog.String("notification_id", n.ID))
			continue
		}
		d.deliver(ctx, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	for attempt := 1; ; attempt++ {
		err := d.sender.Send(ctx, n)
		if err == nil {
			return
		}

		var wait time.Duration
		var tm notifier.TooManyRequestsError
		switch {
		case errors.Is(err, notifier.ErrRejected):
			d.logger.Error("notification rejected",
				slog.String("notification_id", n.ID),
				slog.String("kind", string(n.Kind)),
				slog.String("error", err.Error()),
			)
			return
		case errors.As(err, &tm):
			d.logger.Warn("notification rate limited", slog.Duration("retry_after", tm.RetryAfter))
			wait = min(max(tm.RetryAfter, 0), maxRetryAfter)
		default:
			wait = d.backoff * time.Duration(attempt)
		}

		if attempt >= d.maxAttempts {
			d.logger.Error("notification delivery failed",
				slog.String("notification_id", n.ID),
				slog.String("kind", string(n.Kind)),
				slog.Int("attempts", attempt),
				slog.String("error", err.Error()),
			)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
