package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/journeys-backend/internal/config"
	"github.com/AnshRaj112/journeys-backend/internal/database"
	"github.com/AnshRaj112/journeys-backend/internal/handlers"
	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/internal/routes"
	"github.com/AnshRaj112/journeys-backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() (err error) {
	// Load env
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("No .env file found")
	}

	if err := database.Connect(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		if dErr := database.Disconnect(); dErr != nil {
			logging.Error().Err(dErr).Msg("Failed to disconnect from MongoDB")
			err = errors.Join(err, dErr)
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := services.EnsureIndexes(indexCtx, database.DB); err != nil {
		logging.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
	}
	cancel()

	// Redis only backs the non-production rate limiter, so it is optional
	if cfg.RedisURI != "" && !cfg.IsProduction() {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			logging.Warn().Err(err).Msg("Failed to connect to Redis")
		} else {
			defer func() {
				if rErr := database.DisconnectRedis(); rErr != nil {
					logging.Warn().Err(rErr).Msg("Failed to close Redis client")
				}
			}()
		}
	}

	if cfg.GeocoderAPIKey == "" {
		logging.Warn().Msg("GEOCODER_API_KEY not set; entry creation will fail to resolve locations")
	}
	geocoder := services.NewBreakerGeocoder(
		services.NewGoogleGeocoder(cfg.GeocoderURL, cfg.GeocoderAPIKey, services.NewHTTPClient(cfg.GeocoderTimeout)),
		"geocoder",
	)
	logging.Info().Str("url", cfg.GeocoderURL).Str("breaker", geocoder.State().String()).Msg("Geocoder ready")

	entryHandler := handlers.NewEntryHandler(
		services.NewEntryStore(database.DB.Collection(services.EntriesCollection)),
		geocoder,
		cfg.RequestTimeout,
	)
	userHandler := handlers.NewUserHandler(
		services.NewUserStore(database.DB.Collection(services.UsersCollection)),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(cfg, entryHandler, userHandler, database.RedisClient),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("Journeys backend listening")
	return serve(ctx, srv, shutdownTimeout)
}

// serve runs srv until ctx is done, then drains it for at most drain.
// A listen failure is returned instead of exiting so deferred cleanup still runs.
func serve(ctx context.Context, srv *http.Server, drain time.Duration) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info().Msg("Server exiting")
	return nil
}
