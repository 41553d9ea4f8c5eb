package ports

import (
	"context"
	"flight-price-service/internal/domain"
)

// Port: short-lived bearer credentials for the pricing API, scoped per account.
type TokenSource interface {
	Token(ctx context.Context, account domain.Account) (string, error)
}
