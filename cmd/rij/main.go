package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/rij-wellness-bfa/internal/config"
	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/handler"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/cache"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/observability"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/resilience"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/sqlstore"
	"github.com/boddenberg/rij-wellness-bfa/internal/infra/supabase"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/port"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling/provider"
	"github.com/boddenberg/rij-wellness-bfa/internal/service"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func main() {
	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_cache_ttl", cfg.SessionCacheTTL),
		zap.Int("itinerary_cache_size", cfg.ItineraryCacheSize),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Int("default_itinerary_days", cfg.DefaultItineraryDays),
	)

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(ctx, "rij-bfa", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeStore()

	// --- Caches ---
	sessionCache := cache.New[service.SessionSnapshot](cfg.SessionCacheTTL)
	defer sessionCache.Close()
	itineraryCache := cache.NewLRU[*domain.ItineraryRecord](cfg.ItineraryCacheSize)

	// --- Core ---
	val := validation.New()
	orchestrator := profiling.NewOrchestrator(provider.NewRuleBased(), provider.NewPlaceholder())
	engine := itinerary.NewEngine(itinerary.WithDefaultDays(cfg.DefaultItineraryDays))

	// --- Services ---
	profilingSvc := service.NewProfilingService(store, orchestrator, val, sessionCache, metrics, logger)
	itinerarySvc := service.NewItineraryService(store, profilingSvc, engine, val, itineraryCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Auth:        service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, logger),
		Consents:    service.NewConsentService(store, cfg.ConsentHashKey, logger),
		Profiling:   profilingSvc,
		Itineraries: itinerarySvc,
		Validator:   val,
		Store:       store,
		StoreName:   cfg.StoreBackend,
		Metrics:     metrics,
		Logger:      logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

type journeyStore interface {
	port.JourneyStore
	handler.Pinger
}

// openStore builds the configured JourneyStore and its cleanup function.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (journeyStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		cb := resilience.NewCircuitBreaker("supabase", func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
		client := supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseKey(),
			cb,
			resilience.Config{
				MaxRetries:     cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
				MaxConcurrency: cfg.MaxConcurrency,
			},
			logger,
		)
		return client, func() {}, nil

	case config.BackendPostgres:
		logger.Info("using Postgres as data backend")
		db, err := sqlstore.NewPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil

	default:
		logger.Info("using SQLite as data backend", zap.String("path", cfg.SQLitePath))
		db, err := sqlstore.NewSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
}
