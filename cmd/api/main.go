package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/textscan/textscan/internal/blob"
	"github.com/textscan/textscan/internal/config"
	"github.com/textscan/textscan/internal/credits"
	"github.com/textscan/textscan/internal/infra"
	"github.com/textscan/textscan/internal/logging"
	"github.com/textscan/textscan/internal/routes"
	"github.com/textscan/textscan/internal/scheduler"
	"github.com/textscan/textscan/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.IsDev())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores (dev only)")
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	} else {
		logger.Warn("REDIS_URL not set, idempotency and rate limiting disabled (dev only)")
	}

	var ledger credits.Ledger
	if db != nil {
		ledger = credits.NewPostgresLedger(db)
	} else {
		ledger = credits.NewInMemory()
	}

	var blobs blob.Store
	if db != nil {
		blobs, err = blob.NewFS(cfg.BlobDir)
		if err != nil {
			logger.Error("open blob store", "error", err)
			os.Exit(1)
		}
	} else {
		blobs = blob.NewMemory()
	}

	srv, err := server.New(cfg, routes.Deps{
		Cfg:    cfg,
		DB:     db,
		Cache:  cache,
		Ledger: ledger,
		Blobs:  blobs,
		Logger: logger,
	}, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	resetJob := scheduler.NewResetJob(ledger, logger, cfg.DailyCredits, cfg.ResetHourUTC)
	go resetJob.Run(ctx)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
