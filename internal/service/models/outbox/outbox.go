package outbox

import (
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
)

// OutboxMessage represents an event the broker did not accept yet.
type OutboxMessage struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	RoutingKey  string    `json:"routingKey"`
	Payload     []byte    `json:"payload"`
	ContentType string    `json:"contentType"`
	RetryCount  int       `json:"retryCount"`
	MaxRetries  int       `json:"maxRetries"`
	LastError   string    `json:"lastError"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	NextRetryAt time.Time `json:"nextRetryAt"`
}

// FromMessage parks msg for an immediate retry.
func FromMessage(msg event.Message, maxRetries int, lastError string, now time.Time) OutboxMessage {
	return OutboxMessage{
		ID:          msg.ID,
		Key:         msg.Key,
		RoutingKey:  msg.RoutingKey,
		Payload:     msg.Payload,
		ContentType: msg.ContentType,
		MaxRetries:  maxRetries,
		LastError:   lastError,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}

// Message rebuilds the broker message.
func (m OutboxMessage) Message() event.Message {
	return event.Message{
		ID:          m.ID,
		Key:         m.Key,
		RoutingKey:  m.RoutingKey,
		ContentType: m.ContentType,
		Payload:     m.Payload,
	}
}

// Due reports whether the message should be retried at now.
func (m OutboxMessage) Due(now time.Time) bool {
	return !m.NextRetryAt.After(now) && m.RetryCount < m.MaxRetries
}
