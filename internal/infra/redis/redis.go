package redis

import (
	"fmt"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/piyusu/E-commerse-inventry/internal/config"
)

// Open creates a Redis connection pool. The handle is owned by the
// caller; there is no package-level singleton.
func Open(cfg *config.RedisConfig) (radix.Client, error) {
	pool, err := radix.NewPool("tcp", cfg.Addr, 10)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return pool, nil
}
