package ports

import (
	"context"
	"errors"
	"flight-price-service/internal/domain"
	"time"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound is returned by ByEmail for unknown emails.
var ErrUserNotFound = errors.New("user not found")

// Port: persistence boundary for registered users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
