package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest carries the contact details submitted with a pre-order.
type CheckoutRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// Order is the record forwarded to an order sink when a basket is checked out.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Summary   string          `json:"summary"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// NewOrder snapshots the basket into an order.
func NewOrder(sessionID string, req CheckoutRequest, basket *Basket, currency string, now time.Time) *Order {
	snapshot := basket.Clone()
	return &Order{
		ID:        uuid.New(),
		SessionID: sessionID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Items:     snapshot.Items,
		ItemCount: snapshot.ItemCount(),
		Total:     snapshot.Total(),
		Currency:  currency,
		Summary:   Summarize(snapshot.Items),
		PlacedAt:  now.UTC(),
	}
}

// Summarize renders lines as "3x Tomato @ £2.50, 1x Basil @ £1.00".
func Summarize(items []LineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%dx %s @ %s", item.Quantity, item.Name, FormatMoney(item.Price))
	}
	return strings.Join(parts, ", ")
}
