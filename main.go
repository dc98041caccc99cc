package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/battleship/assets"
	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/database"
	"github.com/robalobadob/battleship/internal/httpserver"
	"github.com/robalobadob/battleship/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenAndMigrate(cfg.DatabasePath, assets.Migrations())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open game store")
	}
	defer closeStore()

	if err := serve(ctx, cfg, st, db); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openStore picks the session store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreBackend != config.StoreRedis {
		return store.NewMemoryStore(), func() {}, nil
	}
	client, err := store.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	ttl := time.Duration(cfg.Redis.TTLHours) * time.Hour
	return store.NewRedisStore(client, ttl), func() { _ = client.Close() }, nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, cfg *config.Config, st store.Store, db *sql.DB) error {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(cfg, st, db).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("starting battleship server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
