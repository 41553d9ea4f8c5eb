package store

import (
	"context"
	"database/sql"
	"errors"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/ports"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres-backed implementation of the UserRepository port.
type PgUserRepository struct {
	DB *sql.DB
}

func NewPgUserRepository(db *sql.DB) *PgUserRepository {
	return &PgUserRepository{DB: db}
}

func (r *PgUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.DB == nil {
		return errors.New("user repository: db is nil")
	}

	q := `
	INSERT INTO users (id, email, password_hash, created_at)
	VALUES ($1, $2, $3, $4);
	`

	_, err := r.DB.ExecContext(ctx, q, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *PgUserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.DB == nil {
		return nil, errors.New("user repository: db is nil")
	}

	q := `
	SELECT id, email, password_hash, created_at, last_login
	FROM users
	WHERE email = $1;
	`

	var (
		user      domain.User
		lastLogin sql.NullTime
	)

	err := r.DB.QueryRowContext(ctx, q, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}

	return &user, nil
}

func (r *PgUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if r.DB == nil {
		return errors.New("user repository: db is nil")
	}

	q := `UPDATE users SET last_login = $1 WHERE id = $2;`

	if _, err := r.DB.ExecContext(ctx, q, at, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	return nil
}
