package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"masarif/internal/amqp"
	"masarif/internal/backend"
	"masarif/internal/cloud"
	"masarif/internal/config"
	"masarif/internal/log"
	"masarif/internal/store"
	"masarif/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting masarif-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := backend.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backends", "error", err)
		os.Exit(1)
	}
	defer func() {
		if backends.Cleanup != nil {
			if err := backends.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	}()

	st := store.New(backends.KV)
	st.Load(ctx)

	syncSvc := cloud.NewService(backends.KV, backends.Remote, logger)
	if err := syncSvc.Load(ctx); err != nil {
		logger.Error("Failed to load sync state", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(st, syncSvc, logger)

	// Catch up on anything written while the worker was down.
	if syncSvc.Status().Enabled {
		logger.Info("Performing startup sync check")
		if err := syncWorker.Sync(ctx, amqp.ReasonScheduled); err != nil {
			logger.Error("Startup sync failed", "error", err)
			// Keep running; the periodic sync will retry.
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeSyncRequests(gctx, func(msg *amqp.SyncRequestMessage) error {
			return syncWorker.HandleSyncRequest(gctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if !syncSvc.Status().Enabled {
					continue
				}
				if err := syncWorker.Sync(gctx, amqp.ReasonScheduled); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
