package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/abundance/pkg/config"
)

// Storage backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Order sinks.
const (
	SinkLog   = "log"
	SinkKafka = "kafka"
	SinkHTTP  = "http"
)

// Config holds all configuration for the basket service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"BASKET_HTTP_PORT" envDefault:"8080"`

	// Basket storage
	Store      string `env:"BASKET_STORE" envDefault:"redis"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB    int    `env:"REDIS_DB" envDefault:"0"`
	TTLHours   int    `env:"BASKET_TTL_HOURS" envDefault:"720"`
	StrictLoad bool   `env:"BASKET_STRICT_LOAD" envDefault:"false"`
	Currency   string `env:"BASKET_CURRENCY" envDefault:"GBP"`

	// Notification banner timings
	NotificationDisplayMS int `env:"NOTIFICATION_DISPLAY_MS" envDefault:"3000"`
	NotificationFadeMS    int `env:"NOTIFICATION_FADE_MS" envDefault:"300"`

	// Checkout
	OrderSink      string `env:"ORDER_SINK" envDefault:"log"`
	OrderIntakeURL string `env:"ORDER_INTAKE_URL" envDefault:""`

	// Kafka
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventsEnabled bool     `env:"BASKET_EVENTS_ENABLED" envDefault:"false"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Debug
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// Presentation
	StoreURL string `env:"STORE_URL" envDefault:"/store"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load basket config: %w", err)
	}
	return finish(cfg)
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environment); err != nil {
		return nil, fmt.Errorf("load basket config: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.OrderSink = strings.ToLower(strings.TrimSpace(cfg.OrderSink))
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.Store {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("BASKET_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.Store)
	}
	if c.TTLHours < 0 {
		return fmt.Errorf("BASKET_TTL_HOURS must not be negative: %d", c.TTLHours)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("BASKET_CURRENCY must be a three-letter code, got %q", c.Currency)
	}
	if c.NotificationDisplayMS <= 0 || c.NotificationFadeMS <= 0 {
		return fmt.Errorf("notification timings must be positive")
	}
	switch c.OrderSink {
	case SinkLog:
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for ORDER_SINK=kafka")
		}
	case SinkHTTP:
		if c.OrderIntakeURL == "" {
			return fmt.Errorf("ORDER_INTAKE_URL is required for ORDER_SINK=http")
		}
	default:
		return fmt.Errorf("ORDER_SINK must be one of log, kafka, http, got %q", c.OrderSink)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when BASKET_EVENTS_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	return nil
}

// BasketTTL is the Redis expiry for stored baskets; zero means none.
func (c *Config) BasketTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// NotificationDisplay is how long a banner stays fully visible.
func (c *Config) NotificationDisplay() time.Duration {
	return time.Duration(c.NotificationDisplayMS) * time.Millisecond
}

// NotificationFade is how long a banner fades before removal.
func (c *Config) NotificationFade() time.Duration {
	return time.Duration(c.NotificationFadeMS) * time.Millisecond
}

// UsesKafka reports whether any component needs a Kafka producer.
func (c *Config) UsesKafka() bool {
	return c.EventsEnabled || c.OrderSink == SinkKafka
}
