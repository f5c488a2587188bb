package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Dispatcher sends summaries on detached goroutines. Failures are logged, never returned.
type Dispatcher struct {
	mailer   Mailer
	recorder SentRecorder
	timeout  time.Duration
	sem      *semaphore.Weighted
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher allowing at most maxInFlight concurrent sends, each
// bounded by timeout.
func NewDispatcher(
	mailer Mailer,
	recorder SentRecorder,
	timeout time.Duration,
	maxInFlight int64,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		recorder: recorder,
		timeout:  timeout,
		sem:      semaphore.NewWeighted(maxInFlight),
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch schedules summary for delivery and returns immediately. After Shutdown it only logs.
func (d *Dispatcher) Dispatch(summary *Summary) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("notification dropped: dispatcher stopped",
			slog.String("authorization_id", summary.AuthorizationID.String()))
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.send(summary)
	}()
}

func (d *Dispatcher) send(summary *Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	logger := d.logger.With(
		slog.String("authorization_id", summary.AuthorizationID.String()),
		slog.String("confirmation_number", summary.ConfirmationNumber),
	)

	if err := d.sem.Acquire(ctx, 1); err != nil {
		logger.Error("notification not sent: no send slot before timeout", slog.Any("error", err))
		return
	}
	defer d.sem.Release(1)

	if err := d.mailer.Send(ctx, summary); err != nil {
		logger.Error("notification not sent", slog.Any("error", err))
		return
	}

	if err := d.recorder.MarkEmailSent(ctx, summary.AuthorizationID, d.now().UTC()); err != nil {
		logger.Error("notification sent but not recorded", slog.Any("error", err))
		return
	}

	logger.Info("notification sent")
}

// Shutdown stops accepting work and waits for in-flight sends until ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
