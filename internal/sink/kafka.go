package sink

import (
	"context"

	"github.com/utafrali/abundance/internal/domain"
	apperrors "github.com/utafrali/abundance/pkg/errors"
)

// OrderPublisher is the part of the event producer the Kafka sink uses.
type OrderPublisher interface {
	PublishPreorderSubmitted(ctx context.Context, order *domain.Order) error
}

// KafkaSink publishes each order as a preorder.submitted event.
type KafkaSink struct {
	publisher OrderPublisher
}

// NewKafkaSink creates a sink backed by the event producer.
func NewKafkaSink(publisher OrderPublisher) *KafkaSink {
	return &KafkaSink{publisher: publisher}
}

// Submit publishes the order. Broker failures are reported as unavailable.
func (s *KafkaSink) Submit(ctx context.Context, order *domain.Order) error {
	if err := s.publisher.PublishPreorderSubmitted(ctx, order); err != nil {
		return apperrors.Unavailable("order intake is unavailable, please try again", err)
	}
	return nil
}

// Name returns "kafka".
func (s *KafkaSink) Name() string { return "kafka" }
