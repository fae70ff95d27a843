package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// minAnonKeyLen is the shortest plausible Supabase anon key (a signed JWT).
const minAnonKeyLen = 100

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	SessionCacheTTL    time.Duration
	ItineraryCacheSize int

	// Observability
	OTLPEndpoint string

	// Persistence
	StoreBackend       string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SQLitePath         string
	DatabaseURL        string

	// JWT / Auth
	JWTSecret    string
	JWTAccessTTL time.Duration

	// Consent pseudonymisation
	ConsentHashKey string

	// Itinerary
	DefaultItineraryDays int
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is read first; variables already set
// in the environment win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		SessionCacheTTL:    getEnvDuration("SESSION_CACHE_TTL", 30*time.Minute),
		ItineraryCacheSize: getEnvInt("ITINERARY_CACHE_SIZE", 512),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "rij.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),

		JWTSecret:    getEnv("JWT_SECRET", "rij-default-dev-secret-change-me"),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),

		ConsentHashKey: getEnv("CONSENT_HASH_KEY", "rij-default-consent-key"),

		DefaultItineraryDays: getEnvInt("DEFAULT_ITINERARY_DAYS", 3),
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendSupabase:
		switch {
		case c.SupabaseURL == "":
			errs = append(errs, errors.New("SUPABASE_URL is not set"))
		case !strings.HasPrefix(c.SupabaseURL, "http"):
			errs = append(errs, errors.New("SUPABASE_URL must be a valid URL"))
		}
		switch {
		case c.SupabaseAnonKey == "":
			errs = append(errs, errors.New("SUPABASE_ANON_KEY is not set"))
		case len(c.SupabaseAnonKey) < minAnonKeyLen:
			errs = append(errs, errors.New("SUPABASE_ANON_KEY appears to be invalid"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is not set"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.ConsentHashKey == "" {
		errs = append(errs, errors.New("CONSENT_HASH_KEY is not set"))
	}

	return errors.Join(errs...)
}

// SupabaseKey returns the key used for PostgREST calls: the service role
// key when configured, the anon key otherwise.
func (c *Config) SupabaseKey() string {
	if c.SupabaseServiceKey != "" {
		return c.SupabaseServiceKey
	}
	return c.SupabaseAnonKey
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
