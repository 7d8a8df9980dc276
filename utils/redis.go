package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient is the shared client, initialised once from main
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects to Redis using environment configuration
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := RedisClient.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	fmt.Println("✅ Redis connected:", addr)
	return nil
}

// ======================
// Token helpers (password reset etc.)
// ======================

func SetToken(key string, value string, ttl time.Duration) error {
	return RedisClient.Set(Ctx, key, value, ttl).Err()
}

func GetToken(key string) (string, error) {
	return RedisClient.Get(Ctx, key).Result()
}

func DeleteToken(key string) error {
	return RedisClient.Del(Ctx, key).Err()
}

// ======================
// Cache helpers (event lookups)
// ======================

// CacheSet stores a JSON payload with TTL. Failures are returned so callers can log them.
func CacheSet(key string, payload []byte, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(Ctx, key, payload, ttl).Err()
}

// CacheGet returns the cached payload or redis.Nil when missing
func CacheGet(key string) ([]byte, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	return RedisClient.Get(Ctx, key).Bytes()
}

// CacheDelete drops a cached key (used on event edits/deletes)
func CacheDelete(keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	_ = RedisClient.Del(Ctx, keys...).Err()
}
