package memory

import (
	"context"
	"sync"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/repository"
)

// BasketRepository keeps encoded baskets in process memory. Values are stored
// in the same JSON form Redis holds, so decoding behaves identically.
type BasketRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBasketRepository creates an empty in-memory repository.
func NewBasketRepository() *BasketRepository {
	return &BasketRepository{data: make(map[string][]byte)}
}

// Load returns the stored basket, or an empty one.
func (r *BasketRepository) Load(_ context.Context, sessionID string) (*domain.Basket, error) {
	r.mu.RLock()
	raw, ok := r.data[repository.Key(sessionID)]
	r.mu.RUnlock()

	if !ok {
		return &domain.Basket{}, nil
	}
	return repository.Decode(raw)
}

// Save overwrites the stored basket.
func (r *BasketRepository) Save(_ context.Context, sessionID string, basket *domain.Basket) error {
	raw, err := repository.Encode(basket)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data[repository.Key(sessionID)] = raw
	r.mu.Unlock()
	return nil
}

// Put stores a raw value under a session's key, bypassing encoding. Put and
// Raw are test fixtures: the service and handler tests use them to seed
// corrupt values and inspect the stored form. Production code never calls
// them.
func (r *BasketRepository) Put(sessionID string, raw []byte) {
	r.mu.Lock()
	r.data[repository.Key(sessionID)] = raw
	r.mu.Unlock()
}

// Raw returns the stored value for a session.
func (r *BasketRepository) Raw(sessionID string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.data[repository.Key(sessionID)]
	return raw, ok
}
