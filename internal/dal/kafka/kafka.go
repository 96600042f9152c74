package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	kafkago "github.com/segmentio/kafka-go"
)

// Client writes order events to a Kafka topic keyed by order id, so every
// event of one order lands on the same partition.
type Client struct {
	writer *kafkago.Writer
}

// NewClient creates a writer for topic. Connections are opened lazily on the
// first write.
func NewClient(brokers []string, topic string) *Client {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}

	slog.Info("Kafka writer configured", "brokers", brokers, "topic", topic)

	return &Client{writer: writer}
}

// Send writes msg synchronously.
func (c *Client) Send(ctx context.Context, msg event.Message) error {
	err := c.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(msg.Key),
		Value: msg.Payload,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(msg.ID)},
			{Key: "event_type", Value: []byte(msg.RoutingKey)},
			{Key: "content_type", Value: []byte(msg.ContentType)},
		},
		Time: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("write to kafka topic %s: %w", c.writer.Topic, err)
	}

	return nil
}

// Close flushes pending writes and closes the writer.
func (c *Client) Close() error {
	return c.writer.Close()
}
