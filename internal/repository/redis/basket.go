package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/repository"
)

// BasketRepository implements repository.BasketRepository using Redis.
type BasketRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBasketRepository creates a new Redis-backed basket repository. A zero
// ttl stores keys without expiry.
func NewBasketRepository(client *redis.Client, ttl time.Duration) *BasketRepository {
	return &BasketRepository{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves a session's basket from Redis.
func (r *BasketRepository) Load(ctx context.Context, sessionID string) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, repository.Key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.Basket{}, nil
		}
		return nil, fmt.Errorf("redis get basket: %w", err)
	}

	basket, err := repository.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode basket %s: %w", sessionID, err)
	}
	return basket, nil
}

// Save persists a basket to Redis with the configured TTL, refreshing the
// expiry on every write.
func (r *BasketRepository) Save(ctx context.Context, sessionID string, basket *domain.Basket) error {
	data, err := repository.Encode(basket)
	if err != nil {
		return fmt.Errorf("marshal basket: %w", err)
	}

	if err := r.client.Set(ctx, repository.Key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set basket: %w", err)
	}

	return nil
}

// Ping checks Redis connectivity for readiness probes.
func (r *BasketRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
