package api

import (
	"flight-price-service/internal/api/handlers"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(flights *handlers.FlightsHandler, users *handlers.UsersHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handlers.Root)
	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/fetch-flights", flights.Fetch)
	mux.HandleFunc("/api/users/register", users.Register)
	mux.HandleFunc("/api/users/login", users.Login)

	return requestIDMiddleware(loggingMiddleware(mux))
}
