package cache

import (
	"context"
	"errors"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/metrics"
	"flight-price-service/internal/platform/obs"
	"time"

	"github.com/rs/zerolog"
)

// TokenFetcher is the uncached side of token acquisition, returning the
// token together with its upstream lifetime.
type TokenFetcher interface {
	FetchToken(ctx context.Context, account domain.Account) (string, time.Duration, error)
}

// CachedTokenSource layers the Redis token cache over a TokenFetcher.
// Cache failures degrade to a direct fetch and never fail the request;
// the cache is an optimization, not a dependency.
type CachedTokenSource struct {
	Fetcher TokenFetcher
	Cache   *TokenCache

	log zerolog.Logger
}

func NewCachedTokenSource(fetcher TokenFetcher, cache *TokenCache) *CachedTokenSource {
	return &CachedTokenSource{
		Fetcher: fetcher,
		Cache:   cache,
		log:     obs.NewLogger("token_source"),
	}
}

// Token implements the TokenSource port.
func (s *CachedTokenSource) Token(ctx context.Context, account domain.Account) (string, error) {
	if s.Cache != nil {
		token, err := s.Cache.Get(ctx, account)
		if err == nil {
			metrics.TokenFetches.WithLabelValues("cache").Inc()
			return token, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn().Str("account", account.String()).Err(err).Msg("token cache read failed")
		}
	}

	token, expiresIn, err := s.Fetcher.FetchToken(ctx, account)
	if err != nil {
		return "", err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, account, token, expiresIn); err != nil {
			s.log.Warn().Str("account", account.String()).Err(err).Msg("token cache write failed")
		}
	}

	return token, nil
}
