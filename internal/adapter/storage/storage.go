// Package storage selects the persisted token slot backend.
package storage

import (
	"context"
	"fmt"

	"balance-dashboard/config"
	"balance-dashboard/internal/adapter/storage/file"
	pgStorage "balance-dashboard/internal/adapter/storage/postgres"
	redisStorage "balance-dashboard/internal/adapter/storage/redis"
	"balance-dashboard/internal/core/ports"

	"github.com/rs/zerolog"
)

// TokenSlot is an opened token store with the health checks of whatever it
// connected to. Close releases those connections.
type TokenSlot struct {
	Store    ports.TokenStore
	Checkers []ports.HealthChecker
	Close    func()
}

// OpenTokenSlot connects the backend named by cfg.Session.Store, sealing
// the token when cfg.Session.EncryptionKey is set.
func OpenTokenSlot(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*TokenSlot, error) {
	slot, err := openTokenSlot(ctx, cfg, log)
	if err != nil || cfg.Session.EncryptionKey == "" {
		return slot, err
	}

	sealed, err := NewSealedStore(slot.Store, cfg.Session.EncryptionKey)
	if err != nil {
		slot.Close()
		return nil, err
	}
	slot.Store = sealed
	return slot, nil
}

func openTokenSlot(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*TokenSlot, error) {
	switch cfg.Session.Store {
	case config.StoreFile:
		path, err := cfg.Session.FilePath()
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Msg("using file token store")
		return &TokenSlot{Store: file.NewTokenStore(path), Close: func() {}}, nil

	case config.StoreRedis:
		rdb, err := redisStorage.Connect(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		store := redisStorage.NewTokenStore(rdb, cfg.Session.Key)
		return &TokenSlot{
			Store:    store,
			Checkers: []ports.HealthChecker{store},
			Close:    func() { _ = rdb.Close() },
		}, nil

	case config.StorePostgres:
		pool, err := pgStorage.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		store := pgStorage.NewTokenStore(pool, cfg.Session.Key)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &TokenSlot{
			Store:    store,
			Checkers: []ports.HealthChecker{store},
			Close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
