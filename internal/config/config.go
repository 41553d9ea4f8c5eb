package config

import (
	"flight-price-service/internal/domain"
	"fmt"
	"os"
	"strings"
	"time"
)

// Credential pair for one upstream API account.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Config aggregates application configuration loaded from environment variables.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string

	AmadeusAuthURL string
	AmadeusAPIURL  string

	// Accounts maps enumerated account identifiers to their credential pair.
	// Built from AMADEUS_API_KEY_<n> / AMADEUS_API_SECRET_<n> variables.
	Accounts map[domain.Account]Credentials

	ThrottleInterval time.Duration
	PerDateTimeout   time.Duration
	SessionTTL       time.Duration

	LogLevel  string
	LogPretty bool
}

// maxAccounts bounds the credential scan; accounts are numbered from 1.
const maxAccounts = 8

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       Get("HTTP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      Get("REDIS_ADDR", "localhost:6379"),
		AmadeusAuthURL: Get("AMADEUS_AUTH_URL", "https://test.api.amadeus.com"),
		AmadeusAPIURL:  Get("AMADEUS_API_URL", "https://test.api.amadeus.com"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		LogPretty:      Get("LOG_PRETTY", "false") == "true",
		Accounts:       map[domain.Account]Credentials{},
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("load config: DATABASE_URL is required")
	}

	throttle, err := parseDurationEnv("THROTTLE_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.ThrottleInterval = throttle

	perDate, err := parseDurationEnv("PER_DATE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PerDateTimeout = perDate

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	for i := 1; i <= maxAccounts; i++ {
		key := os.Getenv(fmt.Sprintf("AMADEUS_API_KEY_%d", i))
		secret := os.Getenv(fmt.Sprintf("AMADEUS_API_SECRET_%d", i))
		if strings.TrimSpace(key) == "" || strings.TrimSpace(secret) == "" {
			continue
		}
		cfg.Accounts[domain.Account(i)] = Credentials{ClientID: key, ClientSecret: secret}
	}

	if len(cfg.Accounts) == 0 {
		return Config{}, fmt.Errorf("load config: at least one AMADEUS_API_KEY_<n>/AMADEUS_API_SECRET_<n> pair is required")
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("load config: parse %s=%q: %w", key, raw, err)
	}
	return d, nil
}
