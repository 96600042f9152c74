package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/outbox"
)

const outboxKeyPrefix = "outbox:"

func outboxKey(id string) string { return outboxKeyPrefix + id }

// OutboxRepository implements the outbox repository on the key-value store.
type OutboxRepository struct {
	store ikvstore.IKVStore
	now   func() time.Time
}

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository(store ikvstore.IKVStore) *OutboxRepository {
	return &OutboxRepository{
		store: store,
		now:   time.Now,
	}
}

// Insert adds a new message to the outbox.
func (r *OutboxRepository) Insert(ctx context.Context, msg outbox.OutboxMessage) error {
	if msg.ID == "" {
		return errors.New("outbox message without id")
	}

	if err := r.put(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPendingMessages retrieves messages that are ready for retry, earliest
// retry first.
func (r *OutboxRepository) GetPendingMessages(
	ctx context.Context,
	limit int,
) ([]outbox.OutboxMessage, error) {
	entries, err := r.store.ScanPrefix(ctx, outboxKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outbox messages: %w", err)
	}

	now := r.now()
	messages := make([]outbox.OutboxMessage, 0)
	for _, e := range entries {
		var msg outbox.OutboxMessage
		if err := json.Unmarshal(e.Value, &msg); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable outbox record", "key", e.Key, "error", err)

			continue
		}
		if msg.Due(now) {
			messages = append(messages, msg)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].NextRetryAt.Before(messages[j].NextRetryAt)
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	return messages, nil
}

// Delete removes a message from the outbox after successful delivery.
func (r *OutboxRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, outboxKey(id)); err != nil {
		return fmt.Errorf("failed to delete outbox message: %w", err)
	}

	return nil
}

// UpdateRetry updates retry count and error information.
func (r *OutboxRepository) UpdateRetry(
	ctx context.Context,
	id string,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	raw, err := r.store.Get(ctx, outboxKey(id))
	if err != nil {
		return fmt.Errorf("failed to load outbox message: %w", err)
	}

	var msg outbox.OutboxMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("failed to decode outbox message: %w", err)
	}

	msg.RetryCount = retryCount
	msg.LastError = lastError
	msg.NextRetryAt = nextRetryAt
	msg.UpdatedAt = r.now()

	if err := r.put(ctx, msg); err != nil {
		return fmt.Errorf("failed to update outbox message: %w", err)
	}

	return nil
}

func (r *OutboxRepository) put(ctx context.Context, msg outbox.OutboxMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return r.store.Set(ctx, outboxKey(msg.ID), raw)
}
