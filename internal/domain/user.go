package domain

import "time"

// Registered service user. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
}
