package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Client represents a RabbitMQ client.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// Close closes the channel and connection for graceful shutdown.
func (r *Client) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}

// MustNewClient creates a new RabbitMQ client and declares the events queue.
func MustNewClient() *Client {
	connStr := fmt.Sprintf(
		"amqp://%s:%s@%s:%d/",
		os.Getenv("RABBITMQ_DEFAULT_USER"),
		os.Getenv("RABBITMQ_DEFAULT_PASS"),
		viper.GetString("events.rabbitmq.host"),
		viper.GetInt("events.rabbitmq.port"),
	)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to RabbitMQ: %v", err))
	}

	channel, err := conn.Channel()
	if err != nil {
		err := conn.Close()
		if err != nil {
			panic(fmt.Sprintf("Failed to close a connection: %v", err))
		}
		panic(fmt.Sprintf("Failed to open a channel: %v", err))
	}

	client := &Client{
		conn:    conn,
		channel: channel,
	}

	queue, err := client.DeclareQueue(DeclareQueueConfig{
		Name:    viper.GetString("events.rabbitmq.queue"),
		Durable: true,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to declare queue: %v", err))
	}
	client.queue = queue

	slog.Info("RabbitMQ connected", "queue", queue.Name)

	return client
}

type DeclareQueueConfig struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DeclareQueue declares a queue with the given configuration.
func (r *Client) DeclareQueue(cfg DeclareQueueConfig) (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		cfg.Name,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	)
}

// Send publishes msg to the events queue through the default exchange.
// The event type travels in the AMQP type property.
func (r *Client) Send(ctx context.Context, msg event.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.channel.Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Type:         msg.RoutingKey,
			Timestamp:    time.Now().UTC(),
			Headers:      amqp.Table{"order_id": msg.Key},
			Body:         msg.Payload,
		},
	)
}
