package storage

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// CacheTTL fronts attraction reads; entries expire on their own, mutations
// just shorten the window.
const CacheTTL = 5 * time.Minute

var cacheContext = context.Background()

func InitializeRedis() {
	// Get Redis URL from environment, fallback to localhost for development
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: "",
		DB:       0,
	})

	log.Println("Redis initialized with address:", redisURL)
}

// CacheGet unmarshals the cached entry for key into dest. Returns false on
// miss, marshal failure, or when no redis client is configured.
func CacheGet(key string, dest interface{}) bool {
	if Redis == nil {
		return false
	}
	raw, err := Redis.Get(cacheContext, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func CacheSet(key string, value interface{}) {
	if Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	Redis.Set(cacheContext, key, raw, CacheTTL)
}

func CacheInvalidate(keys ...string) {
	if Redis == nil || len(keys) == 0 {
		return
	}
	Redis.Del(cacheContext, keys...)
}
