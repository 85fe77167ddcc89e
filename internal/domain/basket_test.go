package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/abundance/pkg/errors"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================================
// NewLineItem
// ============================================================================

func TestNewLineItem_Valid(t *testing.T) {
	li, err := NewLineItem(" s1 ", "Tomato", price("2.50"), 3)
	require.NoError(t, err)
	assert.Equal(t, "s1", li.ID)
	assert.Equal(t, "Tomato", li.Name)
	assert.Equal(t, 3, li.Quantity)
	assert.True(t, li.Subtotal().Equal(price("7.50")))
}

func TestNewLineItem_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		itemName string
		price    decimal.Decimal
		quantity int
	}{
		{"empty id", "", "Tomato", price("1"), 1},
		{"blank id", "   ", "Tomato", price("1"), 1},
		{"empty name", "s1", "", price("1"), 1},
		{"negative price", "s1", "Tomato", price("-0.01"), 1},
		{"zero quantity", "s1", "Tomato", price("1"), 0},
		{"negative quantity", "s1", "Tomato", price("1"), -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLineItem(tt.id, tt.itemName, tt.price, tt.quantity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestNewLineItem_ZeroPriceAllowed(t *testing.T) {
	_, err := NewLineItem("free", "Seed packet", decimal.Zero, 1)
	assert.NoError(t, err)
}

// ============================================================================
// Basket totals
// ============================================================================

func TestBasket_TotalAndCount(t *testing.T) {
	b := &Basket{Items: []LineItem{
		{ID: "a", Name: "Tomato", Price: price("2.50"), Quantity: 3},
		{ID: "b", Name: "Basil", Price: price("1.20"), Quantity: 2},
	}}

	assert.True(t, b.Total().Equal(price("9.90")), b.Total().String())
	assert.Equal(t, 5, b.ItemCount())
	assert.False(t, b.IsEmpty())
}

func TestBasket_EmptyTotals(t *testing.T) {
	b := &Basket{}
	assert.True(t, b.Total().IsZero())
	assert.Equal(t, 0, b.ItemCount())
	assert.True(t, b.IsEmpty())
}

func TestBasket_TotalIsExact(t *testing.T) {
	b := &Basket{Items: []LineItem{
		{ID: "a", Name: "A", Price: price("0.10"), Quantity: 1},
		{ID: "b", Name: "B", Price: price("0.20"), Quantity: 1},
	}}
	assert.Equal(t, "0.3", b.Total().String())
}

func TestBasket_FindItemIndex(t *testing.T) {
	b := &Basket{Items: []LineItem{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, b.FindItemIndex("b"))
	assert.Equal(t, -1, b.FindItemIndex("zzz"))
}

func TestBasket_CloneIsIndependent(t *testing.T) {
	b := &Basket{Items: []LineItem{{ID: "a", Quantity: 1}}}
	c := b.Clone()
	c.Items[0].Quantity = 9

	assert.Equal(t, 1, b.Items[0].Quantity)
}

func TestBasket_Clear(t *testing.T) {
	b := &Basket{Items: []LineItem{{ID: "a", Quantity: 1}}}
	b.Clear()
	assert.True(t, b.IsEmpty())
}

// ============================================================================
// Validate
// ============================================================================

func TestBasket_Validate(t *testing.T) {
	good := LineItem{ID: "a", Name: "A", Price: price("1"), Quantity: 1}

	tests := []struct {
		name    string
		items   []LineItem
		wantErr string
	}{
		{"valid", []LineItem{good}, ""},
		{"missing id", []LineItem{{Name: "A", Quantity: 1}}, "missing id"},
		{"missing name", []LineItem{{ID: "a", Quantity: 1}}, "missing name"},
		{"negative price", []LineItem{{ID: "a", Name: "A", Price: price("-1"), Quantity: 1}}, "negative price"},
		{"zero quantity", []LineItem{{ID: "a", Name: "A", Quantity: 0}}, "quantity 0 below 1"},
		{"duplicate", []LineItem{good, good}, "duplicate id a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Basket{Items: tt.items}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ============================================================================
// JSON shape
// ============================================================================

func TestLineItem_JSONPriceIsNumber(t *testing.T) {
	raw, err := json.Marshal([]LineItem{{ID: "s1", Name: "Tomato", Price: price("2.50"), Quantity: 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1","name":"Tomato","price":2.5,"quantity":5}]`, string(raw))

	var back []LineItem
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, 1)
	assert.True(t, back[0].Price.Equal(price("2.5")))
}

func TestLineItem_AcceptsQuotedPrice(t *testing.T) {
	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","name":"A","price":"1.995","quantity":1}`), &li))
	assert.Equal(t, "1.995", li.Price.String())
}

// ============================================================================
// Money and orders
// ============================================================================

func TestFormatMoney_RoundsHalfAwayFromZero(t *testing.T) {
	tests := map[string]string{
		"1.995": "£2.00",
		"0.125": "£0.13",
		"2.5":   "£2.50",
		"0":     "£0.00",
		"12.5":  "£12.50",
		"0.004": "£0.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(price(in)), in)
	}
}

func TestNewOrder_Snapshot(t *testing.T) {
	b := &Basket{Items: []LineItem{
		{ID: "s1", Name: "Tomato", Price: price("2.50"), Quantity: 3},
		{ID: "b1", Name: "Basil", Price: price("1"), Quantity: 1},
	}}
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.FixedZone("BST", 3600))

	order := NewOrder("sess-1", CheckoutRequest{Name: " Ada ", Email: "ada@example.com"}, b, "GBP", now)
	b.Items[0].Quantity = 99

	assert.NotEmpty(t, order.ID.String())
	assert.Equal(t, "sess-1", order.SessionID)
	assert.Equal(t, "Ada", order.Name)
	assert.Equal(t, "ada@example.com", order.Email)
	assert.Equal(t, 4, order.ItemCount)
	assert.True(t, order.Total.Equal(price("8.50")))
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "GBP", order.Currency)
	assert.Equal(t, "3x Tomato @ £2.50, 1x Basil @ £1.00", order.Summary)
	assert.Equal(t, time.UTC, order.PlacedAt.Location())
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, "", Summarize(nil))
}
