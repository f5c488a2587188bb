package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// RedisSessionStore keeps unlock timestamps in Redis so every API instance sees the same gate state.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a store writing keys under prefix.
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) key(userID uuid.UUID) string {
	return s.prefix + "gate:session:" + userID.String()
}

// Put records an unlock. The key expires after ttl.
func (s *RedisSessionStore) Put(ctx context.Context, userID uuid.UUID, unlockedAt time.Time, ttl time.Duration) error {
	value := strconv.FormatInt(unlockedAt.UnixMicro(), 10)
	if err := s.client.Set(ctx, s.key(userID), value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to store gate session")
	}
	return nil
}

// Get returns the recorded unlock time, or false when none exists.
func (s *RedisSessionStore) Get(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, apperrors.Wrap(err, "failed to read gate session")
	}

	micros, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, apperrors.Wrap(err, "malformed gate session")
	}
	return time.UnixMicro(micros).UTC(), true, nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete gate session")
	}
	return nil
}

// MemorySessionStore keeps unlock timestamps in process memory. It is used when no Redis URL
// is configured and only suits a single instance.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]time.Time
}

// NewMemorySessionStore creates an empty in-process store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]time.Time)}
}

// Put records an unlock. Expiry is enforced by the caller on read.
func (s *MemorySessionStore) Put(_ context.Context, userID uuid.UUID, unlockedAt time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = unlockedAt
	return nil
}

// Get returns the recorded unlock time, or false when none exists.
func (s *MemorySessionStore) Get(_ context.Context, userID uuid.UUID) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlockedAt, ok := s.sessions[userID]
	return unlockedAt, ok, nil
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
