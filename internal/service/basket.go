package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/notify"
	"github.com/utafrali/abundance/internal/repository"
	"github.com/utafrali/abundance/internal/sink"
	"github.com/utafrali/abundance/internal/view"
	apperrors "github.com/utafrali/abundance/pkg/errors"
)

// Basket operation upper-bound limits to prevent abuse.
const (
	// MaxQuantity is the largest quantity a single line can hold.
	MaxQuantity = 9999
	// MaxLines is the maximum number of distinct lines in a basket.
	MaxLines = 50
)

// Display is a presentation surface the store pushes state into: a count
// badge shown on every page and, when present, the basket page.
type Display interface {
	ShowBadge(count int)
	HasBasketPage() bool
	ShowBasketPage(page view.BasketPage)
	ShowConfirmation(order *domain.Order)
}

// Notifier shows the transient per-session banner.
type Notifier interface {
	Show(sessionID, message string) notify.Banner
}

// BasketEvents is notified after every successful persist.
type BasketEvents interface {
	PublishBasketUpdated(ctx context.Context, sessionID string, basket *domain.Basket) error
}

// Options tune store behaviour.
type Options struct {
	// StrictLoad makes Initialize fail on corrupt stored data instead of
	// starting from an empty basket.
	StrictLoad bool
	// Currency is stamped on placed orders.
	Currency string
	// Now is the clock used for order timestamps.
	Now func() time.Time
}

// Baskets builds session-bound stores and serializes all operations on the
// same session.
type Baskets struct {
	repo     repository.BasketRepository
	sink     sink.OrderSink
	notifier Notifier
	events   BasketEvents
	logger   *slog.Logger
	opts     Options
	locks    *sessionLocks
}

// NewBaskets creates a basket factory. events may be nil.
func NewBaskets(repo repository.BasketRepository, orders sink.OrderSink, notifier Notifier, events BasketEvents, logger *slog.Logger, opts Options) *Baskets {
	if opts.Currency == "" {
		opts.Currency = "GBP"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Baskets{
		repo:     repo,
		sink:     orders,
		notifier: notifier,
		events:   events,
		logger:   logger,
		opts:     opts,
		locks:    newSessionLocks(),
	}
}

// Do runs fn against the session's initialized store while holding the
// session lock. display may be nil when nothing is rendered.
func (b *Baskets) Do(ctx context.Context, sessionID string, display Display, fn func(*Store) error) error {
	if sessionID == "" {
		return apperrors.Unauthorized("session id is required")
	}

	release, err := b.locks.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	store := b.newStore(sessionID, display)
	if err := store.Initialize(ctx); err != nil {
		return err
	}
	return fn(store)
}

func (b *Baskets) newStore(sessionID string, display Display) *Store {
	if display == nil {
		display = discardDisplay{}
	}
	return &Store{
		sessionID: sessionID,
		basket:    &domain.Basket{},
		display:   display,
		deps:      b,
	}
}

type discardDisplay struct{}

func (discardDisplay) ShowBadge(int) {}
func (discardDisplay) HasBasketPage() bool { return false }
func (discardDisplay) ShowBasketPage(view.BasketPage) {}
func (discardDisplay) ShowConfirmation(*domain.Order) {}
