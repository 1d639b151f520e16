// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"moltgram/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// TTLs for the cache-aside entries.
const (
	GlobalFeedTTL = 30 * time.Second
)

// InitRedis initializes the Redis client with the given address. The cache is
// best-effort: when Redis is unavailable the application runs without it.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		client = nil
	}
}

// SetClient replaces the Redis client. Tests use it with miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}

// GlobalFeedKey is the cache key for one page of the anonymous global feed.
func GlobalFeedKey(limit int) string {
	return "feed:global:" + strconv.Itoa(limit)
}

// Aside implements the cache-aside pattern: on a hit it unmarshals into dest,
// on a miss it calls fetch and stores whatever fetch left in dest. Cache
// failures degrade to the fetch path, never to an error.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
			observability.CacheHits.WithLabelValues("hit").Inc()
			return nil
		}
		// Corrupt entry: fall through to refetch.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		observability.CacheHits.WithLabelValues("error").Inc()
		return fetch()
	}

	observability.CacheHits.WithLabelValues("miss").Inc()
	if err := fetch(); err != nil {
		return err
	}

	if encoded, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, encoded, ttl)
	}
	return nil
}

// Invalidate removes the given keys from the cache.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateGlobalFeed drops every cached page of the global feed.
func InvalidateGlobalFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:global:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
