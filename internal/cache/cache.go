package cache

import (
	"context"
	"errors"
	"time"

	"github.com/maisonnat/GauchoAPI/internal/config"
)

// ErrMiss is returned when a key is absent or its entry has expired.
// Callers cannot tell the two apart.
var ErrMiss = errors.New("cache: miss")

// Store is a TTL cache of raw fetched pages keyed by absolute URL.
// Writes are last-writer-wins; concurrent adapter runs never share a key
// because URLs are site-specific.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// New builds the Store selected by cfg.Backend.
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisDB), nil
	case "memory":
		return NewMemory(cfg.MaxKeys, cfg.TTL)
	default:
		return NewDisk(cfg.Dir)
	}
}
