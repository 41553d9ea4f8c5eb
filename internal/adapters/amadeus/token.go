package amadeus

import (
	"context"
	"encoding/json"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/metrics"
	"flight-price-service/internal/platform/obs"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tokenPath = "/v1/security/oauth2/token"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchToken exchanges the account's client credentials for a bearer token.
// Any rejection or transport failure maps to ErrAuthFailed; there is no
// partial result at the token layer.
func (c *Client) FetchToken(
	ctx context.Context,
	account domain.Account,
) (_ string, _ time.Duration, err error) {
	defer obs.Time(ctx, "amadeus.FetchToken")(&err)

	creds, ok := c.accounts[account]
	if !ok {
		return "", 0, fmt.Errorf("%w: account %s", ErrUnknownAccount, account)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	body := form.Encode()

	endpoint := c.authURL + tokenPath

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create token request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: account %s: %v", ErrAuthFailed, account, err)
	}
	defer resp.Body.Close()

	var decoded tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", 0, fmt.Errorf("%w: decode token response: %v", ErrAuthFailed, err)
	}

	if decoded.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access_token in response", ErrAuthFailed)
	}

	metrics.TokenFetches.WithLabelValues("auth_endpoint").Inc()

	return decoded.AccessToken, time.Duration(decoded.ExpiresIn) * time.Second, nil
}

// Token implements the TokenSource port for callers that do not layer a
// cache in front of the client.
func (c *Client) Token(ctx context.Context, account domain.Account) (string, error) {
	token, _, err := c.FetchToken(ctx, account)
	return token, err
}
