package ports

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by Resolve for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// Port: opaque bearer session tokens issued at login.
type SessionStore interface {
	// Issue a new session token for the user.
	Create(ctx context.Context, userID string) (string, error)

	// Return the user ID a token belongs to.
	Resolve(ctx context.Context, token string) (string, error)
}
