// Package cache holds Redis-backed short-lived state: bearer tokens and
// login sessions. Durable quote caching lives in the store package.
package cache

import (
	"context"
	"errors"
	"flight-price-service/internal/domain"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates the requested key was not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// expiryMargin is shaved off the upstream TTL so a token never expires
// mid-run between cache read and last pricing call.
const expiryMargin = 60 * time.Second

// TokenCache stores bearer tokens per account with the upstream expiry.
type TokenCache struct {
	rdb *redis.Client
}

func NewTokenCache(rdb *redis.Client) *TokenCache {
	return &TokenCache{rdb: rdb}
}

func tokenKey(account domain.Account) string {
	return "amadeus:token:" + account.String()
}

// Get returns the cached token for the account, or ErrCacheMiss.
func (c *TokenCache) Get(ctx context.Context, account domain.Account) (string, error) {
	token, err := c.rdb.Get(ctx, tokenKey(account)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("token cache get: %w", err)
	}
	return token, nil
}

// Put stores the token for the account. Tokens whose remaining lifetime is
// within the safety margin are not cached at all.
func (c *TokenCache) Put(ctx context.Context, account domain.Account, token string, expiresIn time.Duration) error {
	ttl := expiresIn - expiryMargin
	if ttl <= 0 {
		return nil
	}

	if err := c.rdb.Set(ctx, tokenKey(account), token, ttl).Err(); err != nil {
		return fmt.Errorf("token cache put: %w", err)
	}
	return nil
}
