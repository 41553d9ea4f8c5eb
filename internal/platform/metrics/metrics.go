// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts quote lookups answered from the store.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flight_cache_hits_total",
		Help: "Quote lookups answered from the persistent cache",
	})

	// CacheMisses counts quote lookups that fell through to the pricing API.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flight_cache_misses_total",
		Help: "Quote lookups that required an external pricing call",
	})

	// ConstraintRaces counts upserts reconciled after losing a unique-constraint race.
	ConstraintRaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flight_constraint_races_total",
		Help: "Upserts that lost the unique-key race and were reconciled by re-read",
	})

	// ProviderCalls counts external pricing API calls by outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flight_provider_calls_total",
		Help: "External pricing API calls by outcome (ok, empty, error)",
	}, []string{"outcome"})

	// TokenFetches counts bearer token acquisitions by source.
	TokenFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flight_token_fetches_total",
		Help: "Bearer token acquisitions by source (cache, auth_endpoint)",
	}, []string{"source"})

	// FetchDates counts per-date outcomes of orchestration runs.
	FetchDates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flight_fetch_dates_total",
		Help: "Per-date fetch outcomes (db, api, error)",
	}, []string{"outcome"})
)
