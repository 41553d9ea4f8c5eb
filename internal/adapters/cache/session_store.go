package cache

import (
	"context"
	"errors"
	"flight-price-service/internal/ports"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore issues opaque bearer session tokens with a TTL.
// Implements the SessionStore port.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.rdb.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return userID, nil
}
