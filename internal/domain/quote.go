package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the day-precision wire format used for departure dates.
const DateLayout = "2006-01-02"

// Offer is the typed shape of a single priced flight offer.
//
// Upstream payloads carry many more fields than we model; Raw preserves the
// original offer document so unknown fields survive a round trip through the
// store (forward-compatible parsing, not strict schema rejection).
type Offer struct {
	Carrier   string          `json:"carrier"`
	Total     float64         `json:"total"`
	Currency  string          `json:"currency"`
	FareClass string          `json:"fareClass,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// CachedQuote is the cheapest known offer for one (origin, destination,
// departure date) key. At most one CachedQuote exists per key; the store
// enforces this with a unique constraint rather than application logic.
type CachedQuote struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	Offer         Offer
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheapestOffer reduces offers to the minimum-total entry.
// Ties keep the first-encountered offer (stable reduction, no re-sort).
// Returns false when offers is empty.
func CheapestOffer(offers []Offer) (Offer, bool) {
	if len(offers) == 0 {
		return Offer{}, false
	}

	min := offers[0]
	for _, o := range offers[1:] {
		if o.Total < min.Total {
			min = o
		}
	}
	return min, true
}
