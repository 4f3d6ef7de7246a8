package main

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/ports"
)

// buildStore constructs the persistence backend selected by the config.
// The redis backend additionally yields a distributed locker sharing
// the same client; the other backends return a nil locker.
func buildStore(cfg *config.Config) (ports.DocumentStore, ports.DistributedLocker, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(), nil, nil
	case "file":
		return file.New(cfg.Store.Path), nil, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		opts := []redis.Option{}
		if cfg.Store.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Store.Redis.TTL))
		}
		return redis.NewFromClient(client, opts...), redis.NewLocker(client, "lattice:"), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
