package services

import (
	"context"
	"errors"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/ports"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response does not leak which one failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrInvalidEmail     = errors.New("auth: invalid email")
	ErrPasswordTooShort = errors.New("auth: password must be at least 6 characters")
	ErrEmailTaken       = errors.New("auth: user already exists")
)

const minPasswordLength = 6

// PasswordHasher abstracts bcrypt so tests can use a cheap fake.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthService implements user registration and login.
type AuthService struct {
	Users     ports.UserRepository
	Sessions  ports.SessionStore
	Passwords PasswordHasher
	Logger    zerolog.Logger
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.Logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	return user, nil
}

// Login verifies the credential pair, records the login time and issues an
// opaque bearer session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.Passwords.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; last_login is bookkeeping.
		s.Logger.Warn().Str("user_id", user.ID).Err(err).Msg("touch last login failed")
	}

	token, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: issue session: %w", err)
	}

	s.Logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &AuthResult{User: user, Token: token}, nil
}

// validEmail applies the same lightweight shape check the registration form
// uses: one @ with a dot somewhere after it.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	dot := strings.LastIndex(email, ".")
	return dot > at+1 && dot < len(email)-1
}
