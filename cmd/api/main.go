package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asterhomes/preference-matching/internal/cache"
	"github.com/asterhomes/preference-matching/internal/config"
	httpapi "github.com/asterhomes/preference-matching/internal/http"
	"github.com/asterhomes/preference-matching/internal/logging"
	"github.com/asterhomes/preference-matching/internal/matching"
	"github.com/asterhomes/preference-matching/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	store, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("open database")
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		logging.Fatal().Err(err).Msg("ensure schema")
	}

	if cfg.Database.SeedPath != "" {
		if err := seedListings(store, cfg.Database.SeedPath); err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Database.SeedPath).Msg("seed listings")
		}
	}

	matchCache := newMatchCache(cfg)
	engine := matching.NewEngine(store, store, cfg.API.DefaultPageSize)
	srv := httpapi.NewServer(store, engine, matchCache, cfg)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Addr()).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logging.Fatal().Err(err).Msg("server error")
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
	logging.Info().Msg("server exited")
}

// seedListings loads the JSON seed once, on an empty database.
func seedListings(store *storage.SQLiteStore, path string) error {
	n, err := store.CountListings()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	listings, err := storage.LoadListingsFromFile(path)
	if err != nil {
		return err
	}
	if err := store.UpsertListings(listings); err != nil {
		return err
	}
	logging.Info().Int("count", len(listings)).Msg("seeded listings")
	return nil
}

func newMatchCache(cfg *config.Config) cache.MatchCache {
	if cfg.Redis.Enabled {
		return cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.TTL)
	}
	return cache.NewMemoryCache(cfg.Redis.TTL)
}
