// Package backend builds the storage and remote-store implementations
// selected by configuration.
package backend

import (
	"context"
	"fmt"

	"masarif/internal/cloud"
	cloudgoogle "masarif/internal/cloud/google"
	cloudmemory "masarif/internal/cloud/memory"
	"masarif/internal/config"
	"masarif/internal/log"
	"masarif/internal/storage"
)

// Result bundles the constructed adapters with their cleanup.
type Result struct {
	KV      storage.KV
	Remote  cloud.RemoteStore
	Cleanup func() error
}

// Build constructs the KV store and remote store named by the config.
// The config is assumed validated.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	kv, cleanup, err := buildKV(cfg, logger)
	if err != nil {
		return nil, err
	}

	remote, err := buildRemote(ctx, cfg, logger)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}

	return &Result{KV: kv, Remote: remote, Cleanup: cleanup}, nil
}

func buildKV(cfg *config.Config, logger *log.Logger) (storage.KV, func() error, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		kv, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite storage: %w", err)
		}
		logger.Info("Initialized SQLite storage", "db_path", cfg.SQLiteDBPath)
		return kv, kv.Close, nil
	case "memory":
		logger.Info("Initialized in-memory storage")
		return storage.NewMemoryKV(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func buildRemote(ctx context.Context, cfg *config.Config, logger *log.Logger) (cloud.RemoteStore, error) {
	switch cfg.RemoteBackend {
	case "sheets":
		remote, err := cloudgoogle.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets remote store: %w", err)
		}
		logger.Info("Initialized Google Sheets remote store")
		return remote, nil
	case "memory":
		logger.Info("Initialized in-memory remote store")
		return cloudmemory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported remote backend: %s", cfg.RemoteBackend)
	}
}
