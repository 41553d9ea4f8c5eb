package ports

import (
	"context"
	"flight-price-service/internal/domain"
	"time"
)

// Port: durable cheapest-offer cache keyed by (origin, destination, date).
type QuoteStore interface {
	// Return the cached quote for the key, or nil when absent.
	Lookup(ctx context.Context, origin, destination string, date time.Time) (*domain.CachedQuote, error)

	// Persist offer under the key and return the stored row.
	//
	// Upsert is idempotent and race-safe: when a concurrent writer wins the
	// unique-constraint race for the same key, the implementation re-reads
	// and returns the winning row instead of surfacing the conflict. Callers
	// never need to inspect constraint errors themselves. The bool reports
	// whether this call created the row (false when a concurrent winner's
	// row was returned instead).
	Upsert(ctx context.Context, origin, destination string, date time.Time, offer domain.Offer) (*domain.CachedQuote, bool, error)
}
