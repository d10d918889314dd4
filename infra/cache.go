package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tnqbao/gau-showcase-admin/config"
)

var ErrCacheMiss = errors.New("key not found in cache")

type RedisClient struct {
	Client *redis.Client
	TTL    time.Duration // Default expiry for cached records
}

func InitRedisClient(cfg *config.EnvConfig) *RedisClient {
	addr := net.JoinHostPort(cfg.Redis.RedisHost, cfg.Redis.RedisPort)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed at %s: %v", addr, err)
	}

	log.Printf("Connected to Redis at %s (db %d, cache ttl %s)", addr, cfg.Redis.Database, cfg.Cache.TTL)

	return &RedisClient{Client: client, TTL: cfg.Cache.TTL}
}

// Set stores value as JSON. A zero expiration falls back to the client TTL.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration == 0 {
		expiration = r.TTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	return r.Client.Set(ctx, key, data, expiration).Err()
}

// Get decodes the cached JSON under key into dest. A missing key yields
// ErrCacheMiss.
func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
