package config

import (
	"log"
	"sync"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
)

var (
	// Cache is the shared cache handle. It is never nil after ConnectCache:
	// when Redis is unreachable it holds a degraded client and the service
	// keeps running against the database alone.
	Cache   *cache.Client
	cacheMu sync.Mutex
)

// ConnectCache initializes the shared cache client (idempotent).
func ConnectCache(env Env) *cache.Client {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if Cache != nil {
		return Cache
	}

	Cache = cache.Connect(cache.Options{
		Addr:     env.RedisAddr(),
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	if Cache.Available() {
		log.Printf("connected to Redis at %s", env.RedisAddr())
	} else {
		log.Printf("ALERT: cannot connect to Redis at %s, continuing without cache: %s", env.RedisAddr(), Cache.Reason())
	}
	return Cache
}

// CloseCache releases the cache connection if one was established.
func CloseCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if Cache != nil {
		_ = Cache.Close()
		Cache = nil
	}
}
