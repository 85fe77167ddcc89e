package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/abundance/pkg/errors"
)

// StorageKey is the key-value entry a basket is persisted under. Each session
// gets its own entry, "abundanceBasket:<session>".
const StorageKey = "abundanceBasket"

// LineItem is one product entry in the basket.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// NewLineItem builds a validated line item. Quantity must already be resolved
// by the caller; defaults are not applied here.
func NewLineItem(id, name string, price decimal.Decimal, quantity int) (LineItem, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id == "" {
		return LineItem{}, apperrors.InvalidInput("item id is required")
	}
	if name == "" {
		return LineItem{}, apperrors.InvalidInput("item name is required")
	}
	if price.IsNegative() {
		return LineItem{}, apperrors.InvalidInput("price must not be negative")
	}
	if quantity < 1 {
		return LineItem{}, apperrors.InvalidInput("quantity must be at least 1")
	}

	return LineItem{ID: id, Name: name, Price: price, Quantity: quantity}, nil
}

// Subtotal returns price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// MarshalJSON writes price as a JSON number rather than the quoted string
// decimal uses by default.
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string      `json:"id"`
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{
		ID:       li.ID,
		Name:     li.Name,
		Price:    json.Number(li.Price.String()),
		Quantity: li.Quantity,
	})
}

// Basket is the ordered collection of line items for one session.
type Basket struct {
	Items []LineItem `json:"items"`
}

// Total calculates Σ price × quantity.
func (b *Basket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns Σ quantity.
func (b *Basket) ItemCount() int {
	var count int
	for _, item := range b.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the basket has no lines.
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

// FindItemIndex returns the index of the line with the given id, or -1.
func (b *Basket) FindItemIndex(id string) int {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.Items = nil
}

// Validate checks the invariants of decoded basket data: every line has an id
// and a name, a non-negative price, a quantity of at least 1, and ids are
// unique.
func (b *Basket) Validate() error {
	seen := make(map[string]struct{}, len(b.Items))
	for i, item := range b.Items {
		switch {
		case item.ID == "":
			return fmt.Errorf("line %d: missing id", i)
		case item.Name == "":
			return fmt.Errorf("line %d (%s): missing name", i, item.ID)
		case item.Price.IsNegative():
			return fmt.Errorf("line %d (%s): negative price %s", i, item.ID, item.Price)
		case item.Quantity < 1:
			return fmt.Errorf("line %d (%s): quantity %d below 1", i, item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("line %d: duplicate id %s", i, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy so callers can hand the lines to collaborators
// without sharing the backing array.
func (b *Basket) Clone() *Basket {
	items := make([]LineItem, len(b.Items))
	copy(items, b.Items)
	return &Basket{Items: items}
}
