package handlers

import (
	"encoding/json"
	"flight-price-service/internal/api/dto"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/ports"
	"flight-price-service/internal/services"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// FlightsHandler orchestrates the fetch-or-cache flow for one route:
// date series generation, token acquisition, the sequential per-date fetch
// loop and partial-success response assembly.
type FlightsHandler struct {
	Store    ports.QuoteStore
	Provider ports.OfferProvider
	Tokens   ports.TokenSource
	Account  domain.Account

	ThrottleInterval time.Duration
	PerDateTimeout   time.Duration

	Logger zerolog.Logger
}

func (h *FlightsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.FetchFlightsRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	// Validation happens before any token, store or upstream call.
	if req.Origin == "" || req.Destination == "" || req.SelectedDate == "" {
		writeError(w, r, http.StatusBadRequest, "origin, destination, and selectedDate are required")
		return
	}

	start, err := time.Parse(domain.DateLayout, req.SelectedDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "selectedDate must be formatted as YYYY-MM-DD")
		return
	}

	adults := req.Adults
	if adults == 0 {
		adults = 1
	}
	if adults < 1 || adults > 9 {
		writeError(w, r, http.StatusBadRequest, "adults must be between 1 and 9")
		return
	}

	account := h.Account
	if !account.Valid() {
		account = domain.AccountPrimary
	}

	dates := domain.SameDayEachMonth(start)

	// Token acquisition is all-or-nothing: without a bearer token no date
	// can be attempted, so failure here aborts the whole run.
	token, err := h.Tokens.Token(r.Context(), account)
	if err != nil {
		h.Logger.Error().Str("account", account.String()).Err(err).Msg("token acquisition failed")
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	results, fetchErrs := services.FetchFlights(r.Context(), services.FetchFlightsRequest{
		Origin:           req.Origin,
		Destination:      req.Destination,
		Adults:           adults,
		Dates:            dates,
		Token:            token,
		Account:          account,
		ThrottleInterval: h.ThrottleInterval,
		PerDateTimeout:   h.PerDateTimeout,
	}, h.Store, h.Provider)

	// The loop already emits in input-date order; the response contract
	// guarantees sortedness regardless, so re-sort defensively.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Quote.DepartureDate.Before(results[j].Quote.DepartureDate)
	})

	res := dto.FetchFlightsResponse{
		Total:   len(results),
		Flights: make([]dto.FlightResponse, 0, len(results)),
		Errors:  make([]dto.FetchErrorResponse, 0, len(fetchErrs)),
	}

	for _, fr := range results {
		q := fr.Quote
		res.Flights = append(res.Flights, dto.FlightResponse{
			Source:        fr.Source,
			Origin:        q.Origin,
			Destination:   q.Destination,
			DepartureDate: q.DepartureDate.Format(domain.DateLayout),
			Offer: dto.OfferResponse{
				Carrier:   q.Offer.Carrier,
				Total:     q.Offer.Total,
				Currency:  q.Offer.Currency,
				FareClass: q.Offer.FareClass,
				Raw:       q.Offer.Raw,
			},
			CreatedAt: q.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: q.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	for _, fe := range fetchErrs {
		entry := dto.FetchErrorResponse{
			Date:  fe.Date.Format(domain.DateLayout),
			Error: fe.Reason,
		}
		if fe.Account.Valid() {
			entry.Account = fe.Account.String()
		}
		res.Errors = append(res.Errors, entry)
	}

	writeJSON(w, r, http.StatusOK, res)
}
