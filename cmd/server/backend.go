package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/repository"
)

// openBackend returns the persistence selected by STORE_BACKEND.
func openBackend(ctx context.Context, cfg config.Config, rdb *redis.Client) (repository.Persistence, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory, "":
		return repository.NewMemoryBackend(), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("redis backend selected but redis is unreachable")
		}
		return repository.NewRedisBackend(rdb), nil
	case config.BackendMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		b := repository.NewMySQLBackend(db)
		if err := b.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("mysql schema: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
