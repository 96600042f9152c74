package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ioutboxrepo"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
)

// broker delivers encoded messages.
type broker interface {
	Send(ctx context.Context, msg event.Message) error
}

// Worker retries events parked in the outbox.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	broker        broker
	metrics       *metrics.Registry
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	now           func() time.Time
}

// NewWorker creates a new outbox worker.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	broker broker,
	pollInterval time.Duration,
	batchSize int,
	retryInterval time.Duration,
	m *metrics.Registry,
) *Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if retryInterval <= 0 {
		retryInterval = 30 * time.Second
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		broker:        broker,
		metrics:       m,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		retryInterval: retryInterval,
		now:           time.Now,
	}
}

// Start begins processing messages from the outbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-ticker.C:
			w.ProcessMessages(ctx)
		}
	}
}

// ProcessMessages sends one batch of due messages. Delivered messages are
// deleted; failed ones are rescheduled with exponential backoff.
func (w *Worker) ProcessMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Info("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		if err := w.broker.Send(ctx, msg.Message()); err != nil {
			w.metrics.IncOutboxFailed()

			newRetryCount := msg.RetryCount + 1
			nextRetryAt := w.now().Add(w.backoff(newRetryCount))

			slog.Warn("Failed to publish message from outbox, will retry",
				"outbox_id", msg.ID,
				"retry_count", newRetryCount,
				"max_retries", msg.MaxRetries,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		w.metrics.IncOutboxDelivered()
		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)
		} else {
			slog.Info("Message successfully published and removed from outbox", "outbox_id", msg.ID)
		}
	}
}

// backoff is 2^retry * retryInterval: 60s, 120s, 240s... with the default.
func (w *Worker) backoff(retry int) time.Duration {
	return time.Duration(math.Pow(2, float64(retry))) * w.retryInterval
}
