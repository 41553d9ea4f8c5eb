package amadeus

import (
	"context"
	"encoding/json"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/obs"
	"flight-price-service/internal/ports"
	"fmt"
	"net/http"
	"strconv"
)

const offersPath = "/v2/shopping/flight-offers"

// offerPayload models only the fields we read from an upstream offer.
// The full document is preserved as raw JSON alongside the typed fields.
type offerPayload struct {
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	TravelerPricings       []struct {
		FareDetailsBySegment []struct {
			Cabin string `json:"cabin"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

type offersResponse struct {
	Data []json.RawMessage `json:"data"`
}

// SearchOffers returns all priced offers for the query.
// An empty result is a valid "no offers" outcome, not an error.
func (c *Client) SearchOffers(
	ctx context.Context,
	token string,
	q ports.OfferQuery,
) (_ []domain.Offer, err error) {
	defer obs.Time(ctx, "amadeus.SearchOffers")(&err)

	endpoint := c.apiURL + offersPath
	date := q.DepartureDate.Format(domain.DateLayout)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create offers request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		params := req.URL.Query()
		params.Set("originLocationCode", q.Origin)
		params.Set("destinationLocationCode", q.Destination)
		params.Set("departureDate", date)
		params.Set("adults", strconv.Itoa(q.Adults))
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search offers %s-%s on %s: %w", q.Origin, q.Destination, date, err)
	}
	defer resp.Body.Close()

	var decoded offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search offers %s-%s on %s: decode response: %w", q.Origin, q.Destination, date, err)
	}

	offers := make([]domain.Offer, 0, len(decoded.Data))
	for _, raw := range decoded.Data {
		offer, err := parseOffer(raw)
		if err != nil {
			return nil, fmt.Errorf("search offers %s-%s on %s: %w", q.Origin, q.Destination, date, err)
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

// parseOffer extracts the typed fields from one upstream offer document.
// Unknown fields are kept in Raw rather than rejected.
func parseOffer(raw json.RawMessage) (domain.Offer, error) {
	var p offerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Offer{}, fmt.Errorf("parse offer: %w", err)
	}

	total, err := strconv.ParseFloat(p.Price.Total, 64)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("parse offer: total price %q: %w", p.Price.Total, err)
	}

	offer := domain.Offer{
		Total:    total,
		Currency: p.Price.Currency,
		Raw:      raw,
	}

	if len(p.ValidatingAirlineCodes) > 0 {
		offer.Carrier = p.ValidatingAirlineCodes[0]
	}
	if len(p.TravelerPricings) > 0 && len(p.TravelerPricings[0].FareDetailsBySegment) > 0 {
		offer.FareClass = p.TravelerPricings[0].FareDetailsBySegment[0].Cabin
	}

	return offer, nil
}
