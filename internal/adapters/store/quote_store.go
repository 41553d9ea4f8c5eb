package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/metrics"
	"flight-price-service/internal/platform/obs"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE raised when a concurrent writer
// already inserted the same (origin, destination, departure_date) key.
const uniqueViolation = "23505"

// PgQuoteStore is the Postgres-backed cheapest-offer cache.
//
// The flight_quotes table carries a unique constraint on the composite key;
// that constraint, not application logic, is the concurrency backstop for
// requests racing to cache the same route and date.
type PgQuoteStore struct {
	DB *sql.DB
}

func NewPgQuoteStore(db *sql.DB) *PgQuoteStore {
	return &PgQuoteStore{DB: db}
}

// Lookup returns the cached quote for the key, or nil when absent.
func (s *PgQuoteStore) Lookup(
	ctx context.Context,
	origin, destination string,
	date time.Time,
) (_ *domain.CachedQuote, err error) {
	defer obs.Time(ctx, "store.Lookup")(&err)

	if s.DB == nil {
		return nil, errors.New("quote store: db is nil")
	}

	q := `
	SELECT origin, destination, departure_date, offer, created_at, updated_at
	FROM flight_quotes
	WHERE origin = $1
		AND destination = $2
		AND departure_date = $3;
	`

	row := s.DB.QueryRowContext(ctx, q, origin, destination, date.Format(domain.DateLayout))

	quote, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup quote: %w", err)
	}

	return quote, nil
}

// Upsert persists offer under the key and returns the stored row.
//
// The write is an optimistic INSERT. When a concurrent writer wins the
// unique-constraint race (SQLSTATE 23505), Upsert re-reads and returns the
// winning row with created=false instead of propagating the conflict; the
// caller sees a normal cached quote either way.
func (s *PgQuoteStore) Upsert(
	ctx context.Context,
	origin, destination string,
	date time.Time,
	offer domain.Offer,
) (_ *domain.CachedQuote, _ bool, err error) {
	defer obs.Time(ctx, "store.Upsert")(&err)

	if s.DB == nil {
		return nil, false, errors.New("quote store: db is nil")
	}

	payload, err := json.Marshal(offer)
	if err != nil {
		return nil, false, fmt.Errorf("upsert quote: marshal offer: %w", err)
	}

	q := `
	INSERT INTO flight_quotes (origin, destination, departure_date, offer)
	VALUES ($1, $2, $3, $4)
	RETURNING origin, destination, departure_date, offer, created_at, updated_at;
	`

	row := s.DB.QueryRowContext(ctx, q, origin, destination, date.Format(domain.DateLayout), payload)

	quote, err := scanQuote(row)
	if err == nil {
		return quote, true, nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil, false, fmt.Errorf("upsert quote: %w", err)
	}

	// Lost the insert race. The winner's row is semantically identical for
	// our key, so reconcile by re-reading it.
	metrics.ConstraintRaces.Inc()

	winner, err := s.Lookup(ctx, origin, destination, date)
	if err != nil {
		return nil, false, fmt.Errorf("upsert quote: reconcile after unique violation: %w", err)
	}
	if winner == nil {
		return nil, false, fmt.Errorf("upsert quote: unique violation but no row found for %s-%s on %s",
			origin, destination, date.Format(domain.DateLayout))
	}

	return winner, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*domain.CachedQuote, error) {
	var (
		quote   domain.CachedQuote
		payload []byte
	)

	err := row.Scan(
		&quote.Origin,
		&quote.Destination,
		&quote.DepartureDate,
		&payload,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &quote.Offer); err != nil {
		return nil, fmt.Errorf("unmarshal offer payload: %w", err)
	}

	return &quote, nil
}
