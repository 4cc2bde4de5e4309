package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vzlrn/cardcasebot/internal/cases"
	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/config"
	"github.com/vzlrn/cardcasebot/internal/drop"
	"github.com/vzlrn/cardcasebot/internal/ledger"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/quota"
	"github.com/vzlrn/cardcasebot/internal/relay"
	"github.com/vzlrn/cardcasebot/internal/server"
	"github.com/vzlrn/cardcasebot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.LogLevel)

	// The catalog load must complete before any draw is permitted; a failed
	// load is fatal and visible, not a silent empty catalog.
	cat, err := catalog.Load(cfg.CardsPath)
	if err != nil {
		slog.Error("Failed to load card catalog", "path", cfg.CardsPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Card catalog loaded", "path", cfg.CardsPath, "cards", cat.Len())

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	led := ledger.New(store, cat)
	engine := drop.NewEngine(cat, drop.Odds{
		UltraRare:       cfg.PUltraRare,
		UltraRareCardID: cfg.UltraRareCardID,
		LegendaryFree:   cfg.PLegendaryFree,
		LegendaryPaid:   cfg.PLegendaryPaid,
	}, nil)
	q := quota.New(cfg.DailyFreeLimit, cfg.FreeOpenWindow)

	caseService := cases.NewService(engine, led, q, nil)
	exchangeService := cases.NewExchange(led, nil)

	var channel relay.Channel = relay.NoopChannel{}
	if cfg.RelayURL != "" {
		channel = relay.NewHTTPChannel(cfg.RelayURL)
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, caseService, exchangeService, channel, readyChecker{store: store})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-sc:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// newStore builds the configured storage backend.
func newStore(cfg *config.Config) (storage.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := storage.NewPool(ctx, cfg.GetDBConnString())
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(pool), nil
	case config.BackendRedis:
		return storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return storage.NewMemoryStore(), nil
	}
}

// readyChecker reports storage connectivity for /readyz.
type readyChecker struct {
	store storage.Store
}

func (r readyChecker) CheckReady(ctx context.Context) error {
	if p, ok := r.store.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
