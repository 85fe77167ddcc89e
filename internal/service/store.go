package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/view"
	apperrors "github.com/utafrali/abundance/pkg/errors"
	"github.com/utafrali/abundance/pkg/logger"
	"github.com/utafrali/abundance/pkg/tracing"
	"github.com/utafrali/abundance/pkg/validator"
)

var tracer = tracing.Tracer("service")

// Store is the basket of one session. It is the single source of truth for
// the session's lines and pushes every change to storage and to its display.
// A Store is not safe for concurrent use; Baskets.Do hands out one at a time
// per session.
type Store struct {
	sessionID string
	basket    *domain.Basket
	display   Display
	deps      *Baskets
}

// SessionID returns the session the store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Items returns a copy of the basket lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	return s.basket.Clone().Items
}

// Initialize restores the basket from storage. A missing entry gives an empty
// basket. Corrupt data gives an empty basket and a warning, or an error
// wrapping apperrors.ErrCorrupt when strict loading is on.
func (s *Store) Initialize(ctx context.Context) error {
	ctx, span := s.start(ctx, "basket.initialize")
	defer span.End()

	basket, err := s.deps.repo.Load(ctx, s.sessionID)
	switch {
	case err == nil:
		s.basket = basket
	case errors.Is(err, apperrors.ErrCorrupt):
		corruptLoads.Inc()
		if s.deps.opts.StrictLoad {
			s.fail(span, "initialize", err)
			return fmt.Errorf("load basket: %w", err)
		}
		s.log(ctx).WarnContext(ctx, "stored basket is corrupt, starting empty",
			slog.String("error", err.Error()),
		)
		s.basket = &domain.Basket{}
	default:
		s.fail(span, "initialize", err)
		return fmt.Errorf("load basket: %w", err)
	}

	s.RefreshDisplay()
	basketOperations.WithLabelValues("initialize", "ok").Inc()
	return nil
}

// AddItem adds quantity units of an item. A quantity of 0 means 1. If the id
// is already in the basket its quantity grows and its name and price are
// kept; otherwise a new line is appended. The change is persisted and a
// notification shown.
func (s *Store) AddItem(ctx context.Context, id, name string, price decimal.Decimal, quantity int) error {
	ctx, span := s.start(ctx, "basket.add_item", attribute.String("item.id", id))
	defer span.End()

	if quantity == 0 {
		quantity = 1
	}
	item, err := domain.NewLineItem(id, name, price, quantity)
	if err != nil {
		s.fail(span, "add_item", err)
		return err
	}

	if i := s.basket.FindItemIndex(item.ID); i >= 0 {
		merged := s.basket.Items[i].Quantity + item.Quantity
		if merged > MaxQuantity {
			err := apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
			s.fail(span, "add_item", err)
			return err
		}
		s.basket.Items[i].Quantity = merged
	} else {
		if len(s.basket.Items) >= MaxLines {
			err := apperrors.InvalidInput(fmt.Sprintf("basket must not contain more than %d items", MaxLines))
			s.fail(span, "add_item", err)
			return err
		}
		if item.Quantity > MaxQuantity {
			err := apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
			s.fail(span, "add_item", err)
			return err
		}
		s.basket.Items = append(s.basket.Items, item)
	}

	if err := s.Persist(ctx); err != nil {
		s.fail(span, "add_item", err)
		return err
	}

	s.Notify(fmt.Sprintf("Added %s to basket!", item.Name))
	basketOperations.WithLabelValues("add_item", "ok").Inc()

	s.log(ctx).InfoContext(ctx, "item added to basket",
		slog.String("item_id", item.ID),
		slog.Int("quantity", item.Quantity),
		slog.Int("item_count", s.ItemCount()),
	)
	return nil
}

// RemoveItem deletes the line with the given id. An unknown id leaves the
// basket unchanged; the basket is persisted either way.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	ctx, span := s.start(ctx, "basket.remove_item", attribute.String("item.id", id))
	defer span.End()

	kept := s.basket.Items[:0]
	for _, item := range s.basket.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.basket.Items = kept

	if err := s.Persist(ctx); err != nil {
		s.fail(span, "remove_item", err)
		return err
	}

	basketOperations.WithLabelValues("remove_item", "ok").Inc()
	return nil
}

// UpdateQuantity sets the quantity of an existing line, clamped to at least
// 1. An unknown id is a no-op and nothing is persisted.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	ctx, span := s.start(ctx, "basket.update_quantity",
		attribute.String("item.id", id),
		attribute.Int("item.quantity", quantity),
	)
	defer span.End()

	i := s.basket.FindItemIndex(id)
	if i < 0 {
		basketOperations.WithLabelValues("update_quantity", "noop").Inc()
		return nil
	}
	s.basket.Items[i].Quantity = clampQuantity(quantity)

	if err := s.Persist(ctx); err != nil {
		s.fail(span, "update_quantity", err)
		return err
	}

	basketOperations.WithLabelValues("update_quantity", "ok").Inc()
	return nil
}

// Total returns Σ price × quantity.
func (s *Store) Total() decimal.Decimal {
	return s.basket.Total()
}

// ItemCount returns Σ quantity.
func (s *Store) ItemCount() int {
	return s.basket.ItemCount()
}

// Persist overwrites the stored basket and refreshes the display. A
// basket.updated event follows when events are enabled; publish failures are
// logged and do not fail the operation.
func (s *Store) Persist(ctx context.Context) error {
	if err := s.deps.repo.Save(ctx, s.sessionID, s.basket); err != nil {
		return fmt.Errorf("persist basket: %w", err)
	}
	s.RefreshDisplay()

	if s.deps.events != nil {
		if err := s.deps.events.PublishBasketUpdated(ctx, s.sessionID, s.basket); err != nil {
			s.log(ctx).ErrorContext(ctx, "failed to publish basket.updated event",
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// RefreshDisplay updates the badge and, if the basket page is showing,
// re-renders it. Calling it repeatedly with the same basket yields the same
// output.
func (s *Store) RefreshDisplay() {
	s.display.ShowBadge(s.ItemCount())
	if s.display.HasBasketPage() {
		s.RenderBasketPage()
	}
}

// RenderBasketPage pushes the basket page projection into the display.
func (s *Store) RenderBasketPage() {
	if !s.display.HasBasketPage() {
		return
	}
	s.display.ShowBasketPage(view.BuildBasketPage(s.basket.Items))
}

// Notify shows a transient banner for the session, replacing any current one.
func (s *Store) Notify(message string) {
	if s.deps.notifier == nil {
		return
	}
	s.deps.notifier.Show(s.sessionID, message)
}

// Checkout places a pre-order for the basket. The request is validated and
// an empty basket is rejected. The order goes to the order sink; if the sink
// refuses it the basket is left untouched. Once accepted, the confirmation
// is shown and the basket is cleared and persisted.
func (s *Store) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	ctx, span := s.start(ctx, "basket.checkout", attribute.String("sink", s.deps.sink.Name()))
	defer span.End()

	if err := validator.Validate(req); err != nil {
		s.fail(span, "checkout", err)
		return nil, err
	}
	if s.basket.IsEmpty() {
		err := apperrors.InvalidInput("basket is empty")
		s.fail(span, "checkout", err)
		return nil, err
	}

	order := domain.NewOrder(s.sessionID, req, s.basket, s.deps.opts.Currency, s.deps.opts.Now())
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	if err := s.deps.sink.Submit(ctx, order); err != nil {
		checkouts.WithLabelValues(s.deps.sink.Name(), "error").Inc()
		s.fail(span, "checkout", err)
		s.log(ctx).ErrorContext(ctx, "order sink rejected pre-order",
			slog.String("order_id", order.ID.String()),
			slog.String("sink", s.deps.sink.Name()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submit order: %w", err)
	}
	checkouts.WithLabelValues(s.deps.sink.Name(), "ok").Inc()
	checkoutValue.Observe(order.Total.InexactFloat64())

	s.display.ShowConfirmation(order)

	s.basket.Clear()
	if err := s.Persist(ctx); err != nil {
		// The order has been placed, so the customer still gets the
		// confirmation.
		s.log(ctx).ErrorContext(ctx, "failed to clear basket after checkout",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log(ctx).InfoContext(ctx, "pre-order placed",
		slog.String("order_id", order.ID.String()),
		slog.Int("item_count", order.ItemCount),
		slog.String("total", order.Total.StringFixed(2)),
	)
	basketOperations.WithLabelValues("checkout", "ok").Inc()
	return order, nil
}

func (s *Store) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("session.id", s.sessionID))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Store) fail(span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	basketOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return s.deps.logger.With(slog.String("session_id", s.sessionID))
}
