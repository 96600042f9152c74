package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/config"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kafka"
	memorykv "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kvstore/memory"
	pebblekv "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kvstore/pebble"
	postgreskv "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/kvstore/postgres"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/postgres"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/rabbitmq"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/repositories/events"
	orderrepo "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/repositories/order/kv"
	outboxrepo "github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/repositories/outbox/kv"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/otel"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/services/ordersvc"
	httptransport "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/worker/outbox"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// broker is the event sink selected by events.driver.
type broker interface {
	Send(ctx context.Context, msg event.Message) error
	Close() error
}

type publisher interface {
	Publish(ctx context.Context, evt event.OrderEvent) error
}

// closer releases a resource on shutdown.
type closer struct {
	name  string
	close func() error
}

// App represents the application.
type App struct {
	orderSvc     *ordersvc.OrderService
	transport    *httptransport.HTTPTransport
	outboxWorker *outbox.Worker
	otel         *otel.Controller
	closers      []closer
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{otel: otel.MustInitOtel()}

	m := metrics.NewRegistry("seafood_orders")
	store := a.mustOpenStore()

	var pub publisher
	if b := a.mustOpenBroker(); b != nil {
		outboxRepo := outboxrepo.NewOutboxRepository(store)
		pub = events.NewPublisher(b, outboxRepo,
			events.WithMaxRetries(viper.GetInt("events.outbox.max_retries")),
			events.WithMetrics(m),
		)

		a.outboxWorker = outbox.NewWorker(
			outboxRepo,
			b,
			time.Duration(viper.GetInt("events.outbox.poll_interval_seconds"))*time.Second,
			viper.GetInt("events.outbox.batch_size"),
			time.Duration(viper.GetInt("events.outbox.retry_interval_seconds"))*time.Second,
			m,
		)
	}

	a.orderSvc = ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderrepo.NewOrderRepository(store)),
		ordersvc.WithEventPublisher(pub),
		ordersvc.WithMetrics(m),
		ordersvc.WithDefaultListLimit(viper.GetInt("orders.default_limit")),
		ordersvc.WithStrictStatusTransitions(viper.GetBool("orders.strict_status_transitions")),
	)

	a.transport = httptransport.NewHTTPTransport(a.orderSvc,
		httptransport.WithCatalog(config.MustLoadCatalog()),
		httptransport.WithMetrics(m),
		httptransport.WithAuthToken(viper.GetString("server.http.auth.token")),
	)
	a.transport.RegisterRoutes()

	return a
}

// mustOpenStore opens the backend named by storage.driver.
func (a *App) mustOpenStore() ikvstore.IKVStore {
	switch driver := viper.GetString("storage.driver"); driver {
	case "postgres":
		client := postgres.MustNewClient()
		a.closers = append(a.closers, closer{name: "postgres", close: func() error {
			client.Close()

			return nil
		}})
		slog.Info("Using postgres order store")

		return postgreskv.NewStore(client.Pool())
	case "pebble":
		dir := viper.GetString("storage.pebble.dir")
		store, err := pebblekv.NewStore(dir)
		if err != nil {
			panic("error while opening pebble store: " + err.Error())
		}
		a.closers = append(a.closers, closer{name: "pebble", close: store.Close})
		slog.Info("Using pebble order store", "dir", dir)

		return store
	case "memory", "":
		slog.Warn("Using in-memory order store, orders are lost on restart")

		return memorykv.NewStore()
	default:
		panic("unknown storage.driver: " + driver)
	}
}

// mustOpenBroker connects the broker named by events.driver. It returns nil
// when events are disabled.
func (a *App) mustOpenBroker() broker {
	var b broker
	switch driver := viper.GetString("events.driver"); driver {
	case "rabbitmq":
		b = rabbitmq.MustNewClient()
	case "kafka":
		b = kafka.NewClient(
			viper.GetStringSlice("events.kafka.brokers"),
			viper.GetString("events.kafka.topic"),
		)
	case "none", "":
		slog.Info("Order events disabled")

		return nil
	default:
		panic("unknown events.driver: " + driver)
	}

	a.closers = append(a.closers, closer{name: "broker", close: b.Close})

	return b
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if a.outboxWorker != nil {
		g.Go(func() error {
			a.outboxWorker.Start(gctx)

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		timeout := time.Duration(viper.GetInt("server.http.shutdown_timeout_seconds")) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.transport.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server stopped gracefully")
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("HTTP server error", "error", err)
	}

	a.shutdown()
}

func (a *App) shutdown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			slog.Error("Close error", "resource", c.name, "error", err)
		} else {
			slog.Info("Closed gracefully", "resource", c.name)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
