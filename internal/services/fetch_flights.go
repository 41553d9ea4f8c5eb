package services

import (
	"context"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/metrics"
	"flight-price-service/internal/ports"
	"fmt"
	"time"
)

// Source labels for FetchResult: a quote either came from the persistent
// cache or was just fetched from the pricing API.
const (
	SourceDB  = "db"
	SourceAPI = "api"
)

// Defaults applied when FetchFlightsRequest leaves them zero.
const (
	DefaultThrottleInterval = 500 * time.Millisecond
	DefaultPerDateTimeout   = 15 * time.Second
)

// FetchResult is one successfully resolved date.
type FetchResult struct {
	Source string
	Quote  *domain.CachedQuote
}

// FetchError is one failed date. Account is set only when the failure is
// attributable to an upstream call made under that account.
type FetchError struct {
	Date    time.Time
	Reason  string
	Account domain.Account
}

type FetchFlightsRequest struct {
	Origin      string
	Destination string
	Adults      int
	Dates       []time.Time
	Token       string
	Account     domain.Account

	// ThrottleInterval paces the loop between dates for upstream quota
	// courtesy; PerDateTimeout bounds how long a single stalled date can
	// hold up the rest of the run.
	ThrottleInterval time.Duration
	PerDateTimeout   time.Duration
}

// FetchFlights resolves the cheapest offer for every candidate date using the
// cache-aside protocol: check the store, call the pricing API on miss, keep
// the minimum-price offer and write it back idempotently.
//
// Dates are processed sequentially, each fully resolved before the next
// starts. Fanning out would shorten wall-clock time but multiply quota
// pressure and unique-key races, so the single-flow model is intentional.
//
// Every input date yields exactly one outcome: results (in input-date order)
// or errors (unordered), never both, never neither. Per-date failures do not
// stop the loop; only the caller's token acquisition is all-or-nothing.
func FetchFlights(
	ctx context.Context,
	req FetchFlightsRequest,
	store ports.QuoteStore,
	provider ports.OfferProvider,
) ([]FetchResult, []FetchError) {
	throttle := req.ThrottleInterval
	if throttle == 0 {
		throttle = DefaultThrottleInterval
	}
	perDate := req.PerDateTimeout
	if perDate == 0 {
		perDate = DefaultPerDateTimeout
	}

	results := make([]FetchResult, 0, len(req.Dates))
	errs := make([]FetchError, 0)

	for i, date := range req.Dates {
		dctx, cancel := context.WithTimeout(ctx, perDate)
		result, fetchErr := fetchOne(dctx, req, store, provider, date)
		cancel()

		if fetchErr != nil {
			metrics.FetchDates.WithLabelValues("error").Inc()
			errs = append(errs, *fetchErr)
		} else {
			metrics.FetchDates.WithLabelValues(result.Source).Inc()
			results = append(results, *result)
		}

		// Pace the upstream API between dates; the last date needs no tail
		// pause.
		if i < len(req.Dates)-1 {
			pause(ctx, throttle)
		}
	}

	return results, errs
}

// fetchOne runs the per-date state machine: cache check, external lookup on
// miss, minimum-price selection, idempotent persist. Exactly one of the
// return values is non-nil.
func fetchOne(
	ctx context.Context,
	req FetchFlightsRequest,
	store ports.QuoteStore,
	provider ports.OfferProvider,
	date time.Time,
) (*FetchResult, *FetchError) {
	cached, err := store.Lookup(ctx, req.Origin, req.Destination, date)
	if err != nil {
		return nil, &FetchError{
			Date:   date,
			Reason: fmt.Sprintf("cache lookup failed: %v", err),
		}
	}
	if cached != nil {
		metrics.CacheHits.Inc()
		return &FetchResult{Source: SourceDB, Quote: cached}, nil
	}
	metrics.CacheMisses.Inc()

	offers, err := provider.SearchOffers(ctx, req.Token, ports.OfferQuery{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: date,
		Adults:        req.Adults,
	})
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("error").Inc()
		return nil, &FetchError{
			Date:    date,
			Reason:  err.Error(),
			Account: req.Account,
		}
	}

	cheapest, ok := domain.CheapestOffer(offers)
	if !ok {
		metrics.ProviderCalls.WithLabelValues("empty").Inc()
		return nil, &FetchError{
			Date:   date,
			Reason: "No offers found",
		}
	}
	metrics.ProviderCalls.WithLabelValues("ok").Inc()

	// Upsert reconciles unique-key races internally: if a concurrent request
	// cached this date first, we get the winning row back and report it as a
	// db-sourced result. The date is never dropped or double-reported.
	saved, created, err := store.Upsert(ctx, req.Origin, req.Destination, date, cheapest)
	if err != nil {
		return nil, &FetchError{
			Date:    date,
			Reason:  fmt.Sprintf("persist quote failed: %v", err),
			Account: req.Account,
		}
	}

	source := SourceAPI
	if !created {
		source = SourceDB
	}

	return &FetchResult{Source: source, Quote: saved}, nil
}

// pause sleeps for d without outliving the request context.
func pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
