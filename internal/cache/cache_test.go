package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayankwalia/MyBasketBackend/pkg/logger"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, logger.NewWithWriter("cache-test", "error", io.Discard)), mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_GetJSON_MissThenHit(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var got payload
	assert.False(t, store.GetJSON(ctx, KeyProduct("p1"), &got))

	store.SetJSON(ctx, KeyProduct("p1"), payload{Name: "apples", Count: 3}, TTLProduct)

	require.True(t, store.GetJSON(ctx, KeyProduct("p1"), &got))
	assert.Equal(t, payload{Name: "apples", Count: 3}, got)
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, KeyCategories(), []string{"fruit"}, TTLCategories)

	var got []string
	require.True(t, store.GetJSON(ctx, KeyCategories(), &got))

	mr.FastForward(TTLCategories + time.Second)

	assert.False(t, store.GetJSON(ctx, KeyCategories(), &got))
}

func TestStore_FailOpen_BackendDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, KeyAllProducts(), payload{Name: "x"}, TTLAllProducts)
	mr.Close()

	// A dead backend must read as a miss, never as an error.
	var got payload
	assert.False(t, store.GetJSON(ctx, KeyAllProducts(), &got))

	// Writes and invalidations against a dead backend must not panic.
	store.SetJSON(ctx, KeyAllProducts(), payload{Name: "y"}, TTLAllProducts)
	store.Delete(ctx, KeyAllProducts())
	store.DeleteByPrefix(ctx, CategoryProductsPrefix)
}

func TestStore_GetJSON_CorruptEntryIsMiss(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(KeyProduct("p1"), "{not json"))

	var got payload
	assert.False(t, store.GetJSON(ctx, KeyProduct("p1"), &got))
}

func TestStore_Delete_DoesNotAffectOtherParameterizations(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, KeyCategoryProducts("cat-5"), payload{Name: "five"}, TTLCategoryProducts)
	store.SetJSON(ctx, KeyCategoryProducts("cat-7"), payload{Name: "seven"}, TTLCategoryProducts)

	store.Delete(ctx, KeyCategoryProducts("cat-5"))

	var got payload
	assert.False(t, store.GetJSON(ctx, KeyCategoryProducts("cat-5"), &got))
	require.True(t, store.GetJSON(ctx, KeyCategoryProducts("cat-7"), &got))
	assert.Equal(t, "seven", got.Name)
}

func TestStore_DeleteByPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, KeyCategoryProducts("cat-1"), payload{}, TTLCategoryProducts)
	store.SetJSON(ctx, KeyCategoryProducts("cat-2"), payload{}, TTLCategoryProducts)
	store.SetJSON(ctx, KeyCategories(), payload{Name: "keep"}, TTLCategories)

	store.DeleteByPrefix(ctx, CategoryProductsPrefix)

	var got payload
	assert.False(t, store.GetJSON(ctx, KeyCategoryProducts("cat-1"), &got))
	assert.False(t, store.GetJSON(ctx, KeyCategoryProducts("cat-2"), &got))
	require.True(t, store.GetJSON(ctx, KeyCategories(), &got))
	assert.Equal(t, "keep", got.Name)
}

func TestKeyConstructors_DistinctArguments(t *testing.T) {
	assert.NotEqual(t, KeyCategoryProducts("a"), KeyCategoryProducts("b"))
	assert.NotEqual(t, KeyProduct("a"), KeyProductReviews("a"))
	assert.NotEqual(t, KeyOrderTracking("c1"), KeyOrderTracking("c2"))
}
