package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/catalog"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/logger"
	"github.com/spf13/viper"
)

// MustInit loads .env and config.yaml into viper and installs the process
// logger. A missing .env is tolerated; a missing config file is not.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	SetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/seafood-orders")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}

	if token := viper.GetString("STORE_API_TOKEN"); token != "" && viper.GetString("server.http.auth.token") == "" {
		viper.Set("server.http.auth.token", token)
	}

	SetupLogger()
}

// SetDefaults registers the values used when config.yaml omits a key.
func SetDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.shutdown_timeout_seconds", 10)
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PATCH", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Authorization", "Content-Type"})
	viper.SetDefault("log.level", "info")
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("storage.pebble.dir", "./data/orders")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.migrations_path", "./migrations")
	viper.SetDefault("orders.default_limit", 50)
	viper.SetDefault("orders.strict_status_transitions", false)
	viper.SetDefault("events.driver", "none")
	viper.SetDefault("events.kafka.topic", "orders.events")
	viper.SetDefault("events.rabbitmq.queue", "orders.events")
	viper.SetDefault("events.outbox.poll_interval_seconds", 10)
	viper.SetDefault("events.outbox.batch_size", 100)
	viper.SetDefault("events.outbox.retry_interval_seconds", 30)
	viper.SetDefault("events.outbox.max_retries", 5)
	viper.SetDefault("tracing.enabled", false)
}

func SetupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}

	handler := logger.NewHandler(&slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)
}

// MustLoadCatalog reads catalog.categories. Without that key the built-in
// assortment is served.
func MustLoadCatalog() catalog.Catalog {
	if !viper.IsSet("catalog.categories") {
		return catalog.Default()
	}

	var c catalog.Catalog
	if err := viper.UnmarshalKey("catalog", &c); err != nil {
		panic("error while reading catalog: " + err.Error())
	}

	return c
}
