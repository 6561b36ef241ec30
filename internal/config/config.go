// Package config holds the service configuration loaded from environment
// variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/mayankwalia/MyBasketBackend/pkg/config"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	"github.com/mayankwalia/MyBasketBackend/pkg/tracing"
)

// Config is the full service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"mybasket-backend"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"mybasket"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"mybasket_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"mybasket"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	PostgresMinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"5"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	ReminderInterval      time.Duration `env:"REMINDER_INTERVAL" envDefault:"1h"`
	ReminderInactiveAfter time.Duration `env:"REMINDER_INACTIVE_AFTER" envDefault:"720h"`
	ReminderNoOrderAfter  time.Duration `env:"REMINDER_NO_ORDER_AFTER" envDefault:"336h"`
	ReminderWebhookURL    string        `env:"REMINDER_WEBHOOK_URL" envDefault:""`

	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load service config: %w", err)
	}
	return &cfg, nil
}

// Postgres maps the environment settings onto the pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	pg.MaxConns = c.PostgresMaxConns
	pg.MinConns = c.PostgresMinConns
	return pg
}

// Redis maps the environment settings onto the Redis configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing maps the environment settings onto the tracing configuration.
func (c *Config) Tracing() tracing.Config {
	t := tracing.DefaultConfig(c.ServiceName)
	t.Environment = c.Environment
	t.OTLPEndpoint = c.TracingEndpoint
	t.SampleRate = c.TracingSampleRate
	t.Enabled = c.TracingEnabled
	return t
}
