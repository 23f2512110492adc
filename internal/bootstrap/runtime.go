package bootstrap

import (
	"fmt"

	"planit/internal/cache"
	"planit/internal/config"
	"planit/internal/database"
	"planit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCities loads the built-in city catalog when the table is empty.
	SeedCities bool
}

// InitRuntime connects to DB and Redis and optionally loads reference data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May result in a nil client if unreachable; the app degrades to
	// uncached operation.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedCities {
		if err := seed.Cities(db); err != nil {
			return nil, nil, fmt.Errorf("failed to load city catalog: %w", err)
		}
	}

	return db, r, nil
}
