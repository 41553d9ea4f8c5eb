package dto

import "encoding/json"

type FetchFlightsRequest struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	SelectedDate string `json:"selectedDate"`
	Adults       int    `json:"adults"`
}

type OfferResponse struct {
	Carrier   string          `json:"carrier"`
	Total     float64         `json:"total"`
	Currency  string          `json:"currency"`
	FareClass string          `json:"fareClass,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

type FlightResponse struct {
	Source        string        `json:"source"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departureDate"`
	Offer         OfferResponse `json:"offer"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

type FetchErrorResponse struct {
	Date    string `json:"date"`
	Error   string `json:"error"`
	Account string `json:"account,omitempty"`
}

type FetchFlightsResponse struct {
	Total   int                  `json:"total"`
	Flights []FlightResponse     `json:"flights"`
	Errors  []FetchErrorResponse `json:"errors"`
}
