// Package sink forwards placed pre-orders to wherever they are fulfilled.
package sink

import (
	"context"
	"log/slog"

	"github.com/utafrali/abundance/internal/domain"
)

// OrderSink receives every successfully checked-out order. A non-nil error
// means the order was not accepted and the basket must be left intact.
type OrderSink interface {
	Submit(ctx context.Context, order *domain.Order) error
	Name() string
}

// LogSink writes orders to the structured log. It never fails.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs each order at INFO.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Submit logs the order.
func (s *LogSink) Submit(ctx context.Context, order *domain.Order) error {
	s.logger.InfoContext(ctx, "pre-order submitted",
		slog.String("order_id", order.ID.String()),
		slog.String("email", order.Email),
		slog.String("name", order.Name),
		slog.Any("items", order.Items),
		slog.String("total", order.Total.StringFixed(2)),
		slog.String("currency", order.Currency),
		slog.String("summary", order.Summary),
	)
	return nil
}

// Name returns "log".
func (s *LogSink) Name() string { return "log" }
