package redis

import (
	"log"
	"sync"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
)

var (
	client radix.Client
	once   sync.Once
)

// Init opens the Redis pool. Returns nil when no address is configured;
// callers treat a nil client as "caching disabled".
func Init(cfg *config.RedisConfig) radix.Client {
	if cfg.Addr == "" {
		return nil
	}
	once.Do(func() {
		size := cfg.PoolSize
		if size <= 0 {
			size = 10
		}
		pool, err := radix.NewPool("tcp", cfg.Addr, size)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		client = pool
	})
	return client
}

// Client returns the pool created by Init, possibly nil.
func Client() radix.Client {
	return client
}
