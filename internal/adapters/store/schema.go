package store

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the quote cache and user tables.
// The unique constraint on flight_quotes is load-bearing: it is what lets
// concurrent requests race on the same key and reconcile safely.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`
		CREATE TABLE IF NOT EXISTS flight_quotes (
			id BIGSERIAL PRIMARY KEY,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			departure_date DATE NOT NULL,
			offer JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT flight_quotes_key UNIQUE (origin, destination, departure_date)
		);`,
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_login TIMESTAMPTZ
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}
