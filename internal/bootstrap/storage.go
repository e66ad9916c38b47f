package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/digitaltwinshub/projects-hub/config"
	"github.com/digitaltwinshub/projects-hub/internal/storage"
)

const (
	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
)

// OpenStorage opens the configured key-value backend. The returned close
// function releases its connections.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (storage.KV, func() error, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: connectTimeout,
		})
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return storage.NewRedisStore(client, cfg.KeyPrefix, cfg.MaxValueBytes), client.Close, nil

	case config.DriverPostgres:
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		db, err := storage.OpenPostgres(cctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewPostgresStore(db, cfg.KeyPrefix, cfg.MaxValueBytes)
		if err := store.EnsureSchema(cctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.DriverMemory, "":
		store := storage.NewMemoryStore(storage.WithMaxValueBytes(cfg.MaxValueBytes))
		return store, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
