// Package amadeus implements the TokenSource and OfferProvider ports against
// the Amadeus self-service APIs (OAuth2 client-credentials + flight-offers).
package amadeus

import (
	"errors"
	"flight-price-service/internal/config"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/obs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrAuthFailed is returned when the auth endpoint rejects the credential
// pair or is unreachable. Callers treat this as fatal for the whole run.
var ErrAuthFailed = errors.New("amadeus: token acquisition failed")

// ErrUnknownAccount is returned when no credential pair is configured for
// the requested account.
var ErrUnknownAccount = errors.New("amadeus: unknown account")

// Client talks to the Amadeus auth and pricing endpoints.
//
// It is safe for concurrent use. Transient failures (429, 5xx, network
// errors) are retried with exponential backoff; the per-date throttle in the
// fetch orchestrator is a separate, deliberate pacing layer on top.
type Client struct {
	session  *http.Client
	authURL  string
	apiURL   string
	accounts map[domain.Account]config.Credentials
	log      zerolog.Logger
}

func NewClient(authURL, apiURL string, accounts map[domain.Account]config.Credentials) (*Client, error) {
	if authURL == "" || apiURL == "" {
		return nil, errors.New("amadeus: auth and API base URLs must be non-empty")
	}
	if len(accounts) == 0 {
		return nil, errors.New("amadeus: at least one account credential pair is required")
	}

	return &Client{
		session:  &http.Client{Timeout: 10 * time.Second},
		authURL:  authURL,
		apiURL:   apiURL,
		accounts: accounts,
		log:      obs.NewLogger("amadeus"),
	}, nil
}
