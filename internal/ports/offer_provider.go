package ports

import (
	"context"
	"flight-price-service/internal/domain"
	"time"
)

// Parameters for a one-way offer search on a single departure date.
type OfferQuery struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	Adults        int
}

// Port: external pricing lookup for flight offers.
type OfferProvider interface {
	// Return all offers for the query. An empty slice is a valid
	// "nothing to sell" outcome, not an error.
	SearchOffers(ctx context.Context, token string, q OfferQuery) ([]domain.Offer, error)
}
