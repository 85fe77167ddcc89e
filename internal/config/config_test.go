package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 720*time.Hour, cfg.BasketTTL())
	assert.False(t, cfg.StrictLoad)
	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, 3000*time.Millisecond, cfg.NotificationDisplay())
	assert.Equal(t, 300*time.Millisecond, cfg.NotificationFade())
	assert.Equal(t, SinkLog, cfg.OrderSink)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.UsesKafka())
	assert.Equal(t, []string{"127.0.0.1/32", "::1/128"}, cfg.PprofAllowedCIDRs)
	assert.Equal(t, "/store", cfg.StoreURL)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"BASKET_STORE":          " Memory ",
		"BASKET_STRICT_LOAD":    "true",
		"BASKET_CURRENCY":       "eur",
		"ORDER_SINK":            "KAFKA",
		"KAFKA_BROKERS":         "k1:9092,k2:9092",
		"BASKET_TTL_HOURS":      "0",
		"NOTIFICATION_FADE_MS":  "500",
		"BASKET_EVENTS_ENABLED": "true",
	})

	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.True(t, cfg.StrictLoad)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, SinkKafka, cfg.OrderSink)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Duration(0), cfg.BasketTTL())
	assert.Equal(t, 500*time.Millisecond, cfg.NotificationFade())
	assert.True(t, cfg.UsesKafka())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port", map[string]string{"BASKET_HTTP_PORT": "0"}, "invalid HTTP port"},
		{"store", map[string]string{"BASKET_STORE": "sqlite"}, "BASKET_STORE must be"},
		{"ttl", map[string]string{"BASKET_TTL_HOURS": "-1"}, "BASKET_TTL_HOURS must not be negative"},
		{"currency", map[string]string{"BASKET_CURRENCY": "POUNDS"}, "three-letter code"},
		{"sink", map[string]string{"ORDER_SINK": "email"}, "ORDER_SINK must be one of"},
		{"http sink url", map[string]string{"ORDER_SINK": "http"}, "ORDER_INTAKE_URL is required"},
		{"notification", map[string]string{"NOTIFICATION_DISPLAY_MS": "0"}, "notification timings"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "2.0"}, "OTEL_SAMPLE_RATE must be between 0.0 and 1.0"},
		{"unparseable", map[string]string{"BASKET_HTTP_PORT": "eighty"}, "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.env)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("BASKET_HTTP_PORT", "9090")
	t.Setenv("ORDER_SINK", "http")
	t.Setenv("ORDER_INTAKE_URL", "http://intake.local/orders")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "http://intake.local/orders", cfg.OrderIntakeURL)
}
