package app

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/whatsb/whatsb-embedding-example/internal/config"
	"github.com/whatsb/whatsb-embedding-example/internal/db"
	"github.com/whatsb/whatsb-embedding-example/internal/logger"
	"github.com/whatsb/whatsb-embedding-example/internal/redis"
)

// Infra holds the optional backing stores. Both are nil when the
// corresponding config is absent; the service runs fine without either.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}

		if err := db.RunIssuanceMigration(ctx, sqlDB); err != nil {
			return nil, err
		}

		logger.Info("database ready", nil)
		infra.DB = &db.DB{DB: sqlDB}
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", nil)
		infra.Redis = redisClient
	}

	return infra, nil
}
