package main

import (
	"flight-price-service/internal/adapters/amadeus"
	"flight-price-service/internal/adapters/cache"
	"flight-price-service/internal/adapters/store"
	"flight-price-service/internal/api"
	"flight-price-service/internal/api/handlers"
	"flight-price-service/internal/config"
	"flight-price-service/internal/domain"
	"flight-price-service/internal/platform/db"
	"flight-price-service/internal/platform/obs"
	"flight-price-service/internal/platform/security"
	"flight-price-service/internal/services"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Amadeus) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	logger := obs.SetupLogger(obs.LoggerConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	if err := store.InitSchema(database); err != nil {
		logger.Fatal().Err(err).Msg("init schema")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	quotes := store.NewPgQuoteStore(database)
	users := store.NewPgUserRepository(database)

	client, err := amadeus.NewClient(cfg.AmadeusAuthURL, cfg.AmadeusAPIURL, cfg.Accounts)
	if err != nil {
		logger.Fatal().Err(err).Msg("build amadeus client")
	}

	// Bearer tokens are reused across requests via Redis; a cache outage
	// degrades to direct token fetches.
	tokens := cache.NewCachedTokenSource(client, cache.NewTokenCache(rdb))

	authService := &services.AuthService{
		Users:     users,
		Sessions:  cache.NewRedisSessionStore(rdb, cfg.SessionTTL),
		Passwords: security.BcryptHasher{},
		Logger:    obs.NewLogger("auth"),
	}

	router := api.NewRouter(
		&handlers.FlightsHandler{
			Store:            quotes,
			Provider:         client,
			Tokens:           tokens,
			Account:          domain.AccountPrimary,
			ThrottleInterval: cfg.ThrottleInterval,
			PerDateTimeout:   cfg.PerDateTimeout,
			Logger:           obs.NewLogger("flights"),
		},
		&handlers.UsersHandler{
			Auth:   authService,
			Logger: obs.NewLogger("users"),
		},
	)

	// Write timeout covers a cold-cache run: 11 dates with throttle pauses
	// and external pricing latency per date.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
	logger.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
