package services

import (
	"context"
	"errors"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/ports"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quoteKey(origin, destination string, date time.Time) string {
	return origin + "|" + destination + "|" + date.Format(domain.DateLayout)
}

// fakeQuoteStore is an in-memory QuoteStore. Setting raceWinners simulates a
// concurrent writer beating the upsert for those keys.
type fakeQuoteStore struct {
	quotes      map[string]*domain.CachedQuote
	raceWinners map[string]*domain.CachedQuote
	lookupErr   error
	upsertErr   error

	lookupCalls int
	upsertCalls int
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{
		quotes:      map[string]*domain.CachedQuote{},
		raceWinners: map[string]*domain.CachedQuote{},
	}
}

func (s *fakeQuoteStore) Lookup(ctx context.Context, origin, destination string, date time.Time) (*domain.CachedQuote, error) {
	s.lookupCalls++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.quotes[quoteKey(origin, destination, date)], nil
}

func (s *fakeQuoteStore) Upsert(ctx context.Context, origin, destination string, date time.Time, offer domain.Offer) (*domain.CachedQuote, bool, error) {
	s.upsertCalls++
	if s.upsertErr != nil {
		return nil, false, s.upsertErr
	}

	key := quoteKey(origin, destination, date)

	if winner, ok := s.raceWinners[key]; ok {
		s.quotes[key] = winner
		return winner, false, nil
	}

	q := &domain.CachedQuote{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: date,
		Offer:         offer,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	s.quotes[key] = q
	return q, true, nil
}

// fakeOfferProvider serves canned offers per date.
type fakeOfferProvider struct {
	offers map[string][]domain.Offer
	errs   map[string]error
	calls  int
}

func newFakeOfferProvider() *fakeOfferProvider {
	return &fakeOfferProvider{
		offers: map[string][]domain.Offer{},
		errs:   map[string]error{},
	}
}

func (p *fakeOfferProvider) SearchOffers(ctx context.Context, token string, q ports.OfferQuery) ([]domain.Offer, error) {
	p.calls++
	key := q.DepartureDate.Format(domain.DateLayout)
	if err, ok := p.errs[key]; ok {
		return nil, err
	}
	return p.offers[key], nil
}

func fetchReq(dates ...time.Time) FetchFlightsRequest {
	return FetchFlightsRequest{
		Origin:           "JFK",
		Destination:      "LAX",
		Adults:           1,
		Dates:            dates,
		Token:            "test-token",
		Account:          domain.AccountPrimary,
		ThrottleInterval: time.Millisecond,
		PerDateTimeout:   time.Second,
	}
}

func TestFetchFlightsWarmCacheSkipsProvider(t *testing.T) {
	d := day(2024, time.May, 15)
	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()

	cached := &domain.CachedQuote{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: d,
		Offer:         domain.Offer{Carrier: "AA", Total: 250},
	}
	store.quotes[quoteKey("JFK", "LAX", d)] = cached

	results, errs := FetchFlights(context.Background(), fetchReq(d), store, provider)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Source != SourceDB {
		t.Fatalf("expected source %q, got %q", SourceDB, results[0].Source)
	}
	if provider.calls != 0 {
		t.Fatalf("warm cache must not call the provider, got %d calls", provider.calls)
	}
	if store.upsertCalls != 0 {
		t.Fatalf("warm cache must not upsert, got %d calls", store.upsertCalls)
	}
}

func TestFetchFlightsSecondRunIsIdempotent(t *testing.T) {
	d := day(2024, time.May, 15)
	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()
	provider.offers[d.Format(domain.DateLayout)] = []domain.Offer{{Carrier: "BA", Total: 299}}

	first, _ := FetchFlights(context.Background(), fetchReq(d), store, provider)
	if first[0].Source != SourceAPI {
		t.Fatalf("cold run: expected source %q, got %q", SourceAPI, first[0].Source)
	}

	second, _ := FetchFlights(context.Background(), fetchReq(d), store, provider)
	if second[0].Source != SourceDB {
		t.Fatalf("warm run: expected source %q, got %q", SourceDB, second[0].Source)
	}
	if provider.calls != 1 {
		t.Fatalf("provider should be called once across both runs, got %d", provider.calls)
	}
	if second[0].Quote.Offer.Total != first[0].Quote.Offer.Total {
		t.Fatalf("second run offer %v differs from persisted %v", second[0].Quote.Offer, first[0].Quote.Offer)
	}
}

func TestFetchFlightsSelectsMinimumPrice(t *testing.T) {
	d := day(2024, time.May, 15)
	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()
	provider.offers[d.Format(domain.DateLayout)] = []domain.Offer{
		{Carrier: "AA", Total: 310.50},
		{Carrier: "BA", Total: 299.00},
		{Carrier: "LH", Total: 305.25},
	}

	results, errs := FetchFlights(context.Background(), fetchReq(d), store, provider)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := results[0].Quote.Offer.Total; got != 299.00 {
		t.Fatalf("expected cheapest 299.00 persisted, got %.2f", got)
	}

	stored := store.quotes[quoteKey("JFK", "LAX", d)]
	if stored == nil || stored.Offer.Total != 299.00 {
		t.Fatalf("store should hold the 299.00 offer, got %+v", stored)
	}
}

func TestFetchFlightsPartialSuccess(t *testing.T) {
	dateA := day(2024, time.May, 15)
	dateB := day(2024, time.June, 15)
	dateC := day(2024, time.July, 15)

	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()

	// A is a cache hit, B has nothing to sell, C succeeds via the API.
	store.quotes[quoteKey("JFK", "LAX", dateA)] = &domain.CachedQuote{
		Origin: "JFK", Destination: "LAX", DepartureDate: dateA,
		Offer: domain.Offer{Carrier: "AA", Total: 200},
	}
	provider.offers[dateB.Format(domain.DateLayout)] = nil
	provider.offers[dateC.Format(domain.DateLayout)] = []domain.Offer{{Carrier: "LH", Total: 310}}

	results, errs := FetchFlights(context.Background(), fetchReq(dateA, dateB, dateC), store, provider)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}

	if !results[0].Quote.DepartureDate.Equal(dateA) || !results[1].Quote.DepartureDate.Equal(dateC) {
		t.Fatalf("results out of date order: %v, %v", results[0].Quote.DepartureDate, results[1].Quote.DepartureDate)
	}
	if results[0].Source != SourceDB || results[1].Source != SourceAPI {
		t.Fatalf("expected sources db,api got %s,%s", results[0].Source, results[1].Source)
	}

	if !errs[0].Date.Equal(dateB) {
		t.Fatalf("error should be for %v, got %v", dateB, errs[0].Date)
	}
	if errs[0].Reason != "No offers found" {
		t.Fatalf("expected reason %q, got %q", "No offers found", errs[0].Reason)
	}
	if errs[0].Account.Valid() {
		t.Fatalf("no-offers error should carry no account, got %s", errs[0].Account)
	}
}

func TestFetchFlightsReconcilesLostRace(t *testing.T) {
	d := day(2024, time.May, 15)
	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()
	provider.offers[d.Format(domain.DateLayout)] = []domain.Offer{{Carrier: "BA", Total: 299}}

	// A concurrent request already cached this key between our lookup and
	// upsert; the store reconciles and hands back the winner.
	winner := &domain.CachedQuote{
		Origin: "JFK", Destination: "LAX", DepartureDate: d,
		Offer: domain.Offer{Carrier: "BA", Total: 299},
	}
	store.raceWinners[quoteKey("JFK", "LAX", d)] = winner

	results, errs := FetchFlights(context.Background(), fetchReq(d), store, provider)

	if len(errs) != 0 {
		t.Fatalf("race must not surface an error: %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("race must not drop or duplicate the date: got %d results", len(results))
	}
	if results[0].Source != SourceDB {
		t.Fatalf("reconciled result should be db-sourced, got %q", results[0].Source)
	}
	if results[0].Quote != winner {
		t.Fatal("reconciled result should be the winner's row")
	}
}

func TestFetchFlightsProviderFailureIsPerDate(t *testing.T) {
	dateA := day(2024, time.May, 15)
	dateB := day(2024, time.June, 15)

	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()
	provider.errs[dateA.Format(domain.DateLayout)] = errors.New("upstream 502")
	provider.offers[dateB.Format(domain.DateLayout)] = []domain.Offer{{Carrier: "AA", Total: 180}}

	results, errs := FetchFlights(context.Background(), fetchReq(dateA, dateB), store, provider)

	if len(results) != 1 || len(errs) != 1 {
		t.Fatalf("expected 1 result and 1 error, got %d and %d", len(results), len(errs))
	}
	if errs[0].Account != domain.AccountPrimary {
		t.Fatalf("upstream failure should be attributed to the account, got %s", errs[0].Account)
	}
	if !results[0].Quote.DepartureDate.Equal(dateB) {
		t.Fatal("the failing date must not block later dates")
	}
}

func TestFetchFlightsEveryDateHasExactlyOneOutcome(t *testing.T) {
	dates := []time.Time{
		day(2024, time.May, 15),
		day(2024, time.June, 15),
		day(2024, time.July, 15),
		day(2024, time.August, 15),
	}

	store := newFakeQuoteStore()
	provider := newFakeOfferProvider()
	provider.offers[dates[0].Format(domain.DateLayout)] = []domain.Offer{{Total: 100}}
	provider.errs[dates[1].Format(domain.DateLayout)] = errors.New("boom")
	provider.offers[dates[3].Format(domain.DateLayout)] = []domain.Offer{{Total: 120}}
	// dates[2] has no offers.

	results, errs := FetchFlights(context.Background(), fetchReq(dates...), store, provider)

	if len(results)+len(errs) != len(dates) {
		t.Fatalf("outcomes %d+%d do not partition %d dates", len(results), len(errs), len(dates))
	}
}
