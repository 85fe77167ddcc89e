package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/abundance/internal/domain"
	apperrors "github.com/utafrali/abundance/pkg/errors"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*BasketRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBasketRepository(client, ttl), mr
}

func sampleBasket() *domain.Basket {
	return &domain.Basket{Items: []domain.LineItem{
		{ID: "s1", Name: "Tomato", Price: decimal.RequireFromString("2.50"), Quantity: 5},
	}}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestBasketRepository_Load_Success(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Hour)
	require.NoError(t, mr.Set("abundanceBasket:sess-1", `[{"id":"s1","name":"Tomato","price":2.5,"quantity":5}]`))

	got, err := repo.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tomato", got.Items[0].Name)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.True(t, got.Total().Equal(decimal.RequireFromString("12.50")))
}

func TestBasketRepository_Load_MissingIsEmpty(t *testing.T) {
	repo, _ := setupTestRedis(t, time.Hour)

	got, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestBasketRepository_Load_Corrupt(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Hour)
	require.NoError(t, mr.Set("abundanceBasket:sess-1", `not json`))

	_, err := repo.Load(context.Background(), "sess-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCorrupt))
}

func TestBasketRepository_Load_ConnectionError(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	_, err := repo.Load(context.Background(), "sess-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrCorrupt))
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestBasketRepository_Save_WritesJSONArrayWithTTL(t *testing.T) {
	repo, mr := setupTestRedis(t, 720*time.Hour)

	require.NoError(t, repo.Save(context.Background(), "sess-1", sampleBasket()))

	raw, err := mr.Get("abundanceBasket:sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"s1","name":"Tomato","price":2.5,"quantity":5}]`, raw)
	assert.Equal(t, 720*time.Hour, mr.TTL("abundanceBasket:sess-1"))
}

func TestBasketRepository_Save_NoTTL(t *testing.T) {
	repo, mr := setupTestRedis(t, 0)

	require.NoError(t, repo.Save(context.Background(), "sess-1", sampleBasket()))
	assert.Equal(t, time.Duration(0), mr.TTL("abundanceBasket:sess-1"))
}

func TestBasketRepository_Save_Overwrites(t *testing.T) {
	repo, _ := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", sampleBasket()))
	require.NoError(t, repo.Save(ctx, "sess-1", &domain.Basket{}))

	got, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestBasketRepository_Save_Expires(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", sampleBasket()))
	mr.FastForward(2 * time.Minute)

	got, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

// ---------------------------------------------------------------------------
// Ping
// ---------------------------------------------------------------------------

func TestBasketRepository_Ping(t *testing.T) {
	repo, mr := setupTestRedis(t, time.Hour)
	assert.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}
