package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ioutboxrepo"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/outbox"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
)

const defaultMaxRetries = 5

// broker delivers encoded messages. RabbitMQ and Kafka clients satisfy it.
type broker interface {
	Send(ctx context.Context, msg event.Message) error
}

// Publisher sends order events to the broker and parks the ones the broker
// rejects in the outbox.
type Publisher struct {
	broker     broker
	outboxRepo ioutboxrepo.IOutboxRepository
	metrics    *metrics.Registry
	maxRetries int
	now        func() time.Time
}

// option is a function that configures the Publisher.
type option func(*Publisher)

// NewPublisher creates a new Publisher.
func NewPublisher(broker broker, outboxRepo ioutboxrepo.IOutboxRepository, opts ...option) *Publisher {
	p := &Publisher{
		broker:     broker,
		outboxRepo: outboxRepo,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithMaxRetries sets how many times the outbox worker retries a message.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMaxRetries(n int) option {
	return func(p *Publisher) {
		if n > 0 {
			p.maxRetries = n
		}
	}
}

// WithMetrics sets the metrics registry.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.Registry) option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// Publish sends evt. A broker failure is not an error as long as the message
// could be parked in the outbox.
func (p *Publisher) Publish(ctx context.Context, evt event.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := event.Message{
		ID:          evt.EventID,
		Key:         evt.OrderID,
		RoutingKey:  string(evt.Type),
		ContentType: "application/json",
		Payload:     payload,
	}

	sendErr := p.broker.Send(ctx, msg)
	if sendErr == nil {
		return nil
	}

	slog.WarnContext(ctx, "Failed to publish event, parking in outbox",
		"event_id", evt.EventID,
		"event_type", evt.Type,
		"order_id", evt.OrderID,
		"error", sendErr,
	)

	parked := outbox.FromMessage(msg, p.maxRetries, sendErr.Error(), p.now())
	if err := p.outboxRepo.Insert(ctx, parked); err != nil {
		return fmt.Errorf("park event %s: %w", evt.EventID, err)
	}
	p.metrics.IncOutboxParked()

	return nil
}
