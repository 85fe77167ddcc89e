package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/abundance/internal/domain"
	pkgkafka "github.com/utafrali/abundance/pkg/kafka"
	"github.com/utafrali/abundance/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func basket() *domain.Basket {
	return &domain.Basket{Items: []domain.LineItem{
		{ID: "s1", Name: "Tomato", Price: decimal.RequireFromString("2.50"), Quantity: 5},
	}}
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "abundance.basket.updated", TopicBasketUpdated)
	assert.Equal(t, "abundance.preorder.submitted", TopicPreorderSubmitted)
}

func TestPublishBasketUpdated(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, logger.Discard(), "GBP")

	var captured *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicBasketUpdated, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, p.PublishBasketUpdated(ctx, "sess-1", basket()))

	pub.AssertExpectations(t)
	require.NotNil(t, captured)
	assert.Equal(t, EventBasketUpdated, captured.EventType)
	assert.Equal(t, "sess-1", captured.AggregateID)
	assert.Equal(t, AggregateTypeBasket, captured.AggregateType)
	assert.Equal(t, SourceBasketService, captured.Source)
	assert.Equal(t, "corr-1", captured.CorrelationID)

	var data BasketUpdatedData
	require.NoError(t, captured.UnmarshalData(&data))
	assert.Equal(t, 5, data.ItemCount)
	assert.True(t, data.Total.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "GBP", data.Currency)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Tomato", data.Items[0].Name)
}

func TestPublishPreorderSubmitted(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, logger.Discard(), "GBP")

	order := domain.NewOrder("sess-1", domain.CheckoutRequest{Name: "Ada", Email: "ada@example.com"}, basket(), "GBP", time.Now())

	var captured *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicPreorderSubmitted, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	require.NoError(t, p.PublishPreorderSubmitted(context.Background(), order))

	require.NotNil(t, captured)
	assert.Equal(t, EventPreorderSubmitted, captured.EventType)
	assert.Equal(t, order.ID.String(), captured.AggregateID)
	assert.Equal(t, "GBP", captured.Metadata["currency"])

	var data PreorderSubmittedData
	require.NoError(t, captured.UnmarshalData(&data))
	assert.Equal(t, "ada@example.com", data.Email)
	assert.Equal(t, "5x Tomato @ £2.50", data.Summary)
}

func TestPublish_Error(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, logger.Discard(), "GBP")
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := p.PublishBasketUpdated(context.Background(), "sess-1", basket())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
