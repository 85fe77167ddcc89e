package repository

import (
	"context"
	"encoding/json"

	"github.com/utafrali/abundance/internal/domain"
	apperrors "github.com/utafrali/abundance/pkg/errors"
)

// BasketRepository defines the interface for basket persistence operations.
type BasketRepository interface {
	// Load returns the stored basket for a session. A missing entry yields an
	// empty basket; unreadable data yields an error wrapping apperrors.ErrCorrupt.
	Load(ctx context.Context, sessionID string) (*domain.Basket, error)

	// Save overwrites the stored basket for a session.
	Save(ctx context.Context, sessionID string, basket *domain.Basket) error
}

// Key returns the storage key for a session's basket.
func Key(sessionID string) string {
	return domain.StorageKey + ":" + sessionID
}

// Encode serializes a basket as the stored JSON array of line items.
func Encode(basket *domain.Basket) ([]byte, error) {
	items := basket.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a stored value back into a basket. Malformed JSON and data
// that breaks the basket invariants are both reported as corrupt.
func Decode(data []byte) (*domain.Basket, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperrors.Corrupt("basket", err)
	}

	basket := &domain.Basket{Items: items}
	if err := basket.Validate(); err != nil {
		return nil, apperrors.Corrupt("basket", err)
	}
	return basket, nil
}
