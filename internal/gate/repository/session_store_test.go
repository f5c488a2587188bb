package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedisSessionStore(client, "cardauth:")
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	unlockedAt := time.Date(2026, 6, 1, 12, 0, 0, 123456000, time.UTC)

	_, ok, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, userID, unlockedAt, 30*time.Minute))
	assert.True(t, server.Exists("cardauth:gate:session:"+userID.String()))
	assert.Equal(t, 30*time.Minute, server.TTL("cardauth:gate:session:"+userID.String()))

	got, ok, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, unlockedAt, got)

	server.FastForward(31 * time.Minute)
	_, ok, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, userID, unlockedAt, time.Minute))
	require.NoError(t, store.Delete(ctx, userID))
	_, ok, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionStore_Malformed(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedisSessionStore(client, "")
	userID := uuid.Must(uuid.NewV7())
	require.NoError(t, server.Set("gate:session:"+userID.String(), "yesterday"))

	_, _, err := store.Get(context.Background(), userID)
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	unlockedAt := time.Now().UTC()

	require.NoError(t, store.Put(ctx, userID, unlockedAt, time.Minute))

	got, ok, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, unlockedAt, got)

	_, ok, _ = store.Get(ctx, uuid.Must(uuid.NewV7()))
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, userID))
	_, ok, _ = store.Get(ctx, userID)
	assert.False(t, ok)
}
