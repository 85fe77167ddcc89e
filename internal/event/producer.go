package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/abundance/internal/domain"
	pkgkafka "github.com/utafrali/abundance/pkg/kafka"
)

// Kafka topics for basket domain events.
var (
	TopicBasketUpdated     = pkgkafka.Topic("basket", "updated")
	TopicPreorderSubmitted = pkgkafka.Topic("preorder", "submitted")
)

// Event types carried in the envelope.
const (
	EventBasketUpdated     = "basket.updated"
	EventPreorderSubmitted = "preorder.submitted"
)

// Aggregate types.
const (
	AggregateTypeBasket = "basket"
	AggregateTypeOrder  = "order"
)

// SourceBasketService identifies events originating from this service.
const SourceBasketService = "basket-service"

// BasketUpdatedData is the payload for a basket.updated event.
type BasketUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
	Currency  string            `json:"currency"`
}

// PreorderSubmittedData is the payload for a preorder.submitted event.
type PreorderSubmittedData struct {
	OrderID   string            `json:"order_id"`
	SessionID string            `json:"session_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
	Currency  string            `json:"currency"`
	Summary   string            `json:"summary"`
}

// Producer publishes basket domain events to Kafka.
type Producer struct {
	kafka    pkgkafka.Publisher
	logger   *slog.Logger
	currency string
}

// NewProducer creates a new event producer for the basket service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger, currency string) *Producer {
	return &Producer{
		kafka:    kafka,
		logger:   logger,
		currency: currency,
	}
}

// PublishBasketUpdated publishes a basket.updated event.
func (p *Producer) PublishBasketUpdated(ctx context.Context, sessionID string, basket *domain.Basket) error {
	items := basket.Clone().Items
	data := BasketUpdatedData{
		SessionID: sessionID,
		Items:     items,
		ItemCount: basket.ItemCount(),
		Total:     basket.Total(),
		Currency:  p.currency,
	}

	event, err := pkgkafka.NewEventFromContext(ctx, EventBasketUpdated, sessionID, AggregateTypeBasket, SourceBasketService, data)
	if err != nil {
		return fmt.Errorf("create basket.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBasketUpdated, event); err != nil {
		return fmt.Errorf("publish basket.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published basket.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishPreorderSubmitted publishes a preorder.submitted event. Events are
// keyed by order id.
func (p *Producer) PublishPreorderSubmitted(ctx context.Context, order *domain.Order) error {
	data := PreorderSubmittedData{
		OrderID:   order.ID.String(),
		SessionID: order.SessionID,
		Name:      order.Name,
		Email:     order.Email,
		Items:     order.Items,
		ItemCount: order.ItemCount,
		Total:     order.Total,
		Currency:  order.Currency,
		Summary:   order.Summary,
	}

	event, err := pkgkafka.NewEventFromContext(ctx, EventPreorderSubmitted, data.OrderID, AggregateTypeOrder, SourceBasketService, data)
	if err != nil {
		return fmt.Errorf("create preorder.submitted event: %w", err)
	}
	event.WithMetadata("currency", order.Currency)

	if err := p.kafka.Publish(ctx, TopicPreorderSubmitted, event); err != nil {
		return fmt.Errorf("publish preorder.submitted event: %w", err)
	}

	p.logger.InfoContext(ctx, "published preorder.submitted event",
		slog.String("order_id", data.OrderID),
		slog.String("session_id", order.SessionID),
	)

	return nil
}
