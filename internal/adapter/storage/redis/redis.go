// Package redis keeps the bearer token in a shared Redis key.
package redis

import (
	"context"
	"fmt"
	"time"

	"balance-dashboard/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	clientName  = "balance-dashboard"
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// Connect opens a small Redis client for the token slot and pings it. The
// slot sees a handful of commands per sign-in, so the pool stays tiny.
func Connect(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(options(cfg))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr(), err)
	}

	log.Debug().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("token slot connected to redis")
	return client, nil
}

func options(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		PoolSize:     2,
	}
}
