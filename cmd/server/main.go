package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/BellSamaa/TourZen-sub001/internal/auth"
	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/handlers"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/router"
	"github.com/BellSamaa/TourZen-sub001/internal/service"
)

const (
	defaultPort         = "8080"
	defaultTemporalHost = "localhost:7233"
	defaultBundlePath   = "data/catalog.yaml"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	port := getEnv("API_PORT", defaultPort)
	temporalHost := getEnv("TEMPORAL_HOST", defaultTemporalHost)
	bundlePath := getEnv("CATALOG_BUNDLE", defaultBundlePath)
	databaseURL := os.Getenv("DATABASE_URL")
	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-me")

	ctx := context.Background()

	var repo *database.Repository
	var store *catalog.Store
	var addOns []pricing.AddOn

	if databaseURL != "" {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}

		repo = database.NewRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
		if err := seedIfEmpty(ctx, repo, bundlePath, logger); err != nil {
			logger.Fatal("failed to seed catalog", zap.Error(err))
		}

		tours, err := repo.LoadCatalog(ctx)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
		store, err = catalog.NewStore(tours)
		if err != nil {
			logger.Fatal("invalid catalog data", zap.Error(err))
		}
		addOns, err = repo.LoadAddOns(ctx)
		if err != nil {
			logger.Fatal("failed to load add-ons", zap.Error(err))
		}
		logger.Info("catalog loaded from database", zap.Int("tours", store.Len()), zap.Int("addOns", len(addOns)))
	} else {
		// Catalog-only mode: browse and quote from the static bundle,
		// bookings disabled.
		store, err = catalog.LoadBundle(bundlePath)
		if err != nil {
			logger.Fatal("failed to load catalog bundle", zap.Error(err))
		}
		addOns, err = pricing.LoadAddOnBundle(bundlePath)
		if err != nil {
			logger.Fatal("failed to load add-on bundle", zap.Error(err))
		}
		logger.Info("catalog loaded from static bundle", zap.Int("tours", store.Len()), zap.Int("addOns", len(addOns)))
	}

	var temporalClient client.Client
	if repo != nil {
		temporalClient, err = client.Dial(client.Options{HostPort: temporalHost})
		if err != nil {
			logger.Fatal("failed to create Temporal client", zap.Error(err))
		}
		defer temporalClient.Close()
	}

	bookingService := service.NewBookingService(store, addOns, repo, temporalClient, logger)
	h := handlers.NewHandler(bookingService, logger)
	authenticator := auth.New(jwtSecret, logger)
	r := router.SetupRouter(h, authenticator)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// seedIfEmpty applies the static bundle to an empty database so a fresh
// deployment has a browsable catalog.
func seedIfEmpty(ctx context.Context, repo *database.Repository, bundlePath string, logger *zap.Logger) error {
	n, err := repo.CountTours(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	store, err := catalog.LoadBundle(bundlePath)
	if err != nil {
		return err
	}
	for _, t := range store.All() {
		if err := repo.UpsertTour(ctx, t); err != nil {
			return err
		}
	}
	addOns, err := pricing.LoadAddOnBundle(bundlePath)
	if err != nil {
		return err
	}
	for i, a := range addOns {
		if err := repo.UpsertAddOn(ctx, i, a); err != nil {
			return err
		}
	}
	logger.Info("seeded catalog from bundle", zap.Int("tours", store.Len()), zap.Int("addOns", len(addOns)))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
