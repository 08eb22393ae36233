package rates

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis, for deployments where several
// processes should share one rate cache.
type RedisStore struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisStore connects to Redis using a redis:// URL.
func NewRedisStore(url string, logger *log.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("rate store: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("rate store: redis ping: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RedisStore{client: client, logger: logger}, nil
}

// Get returns the cached value. Redis errors are logged and reported as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Printf("rate store: redis get %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// Set stores a value with a TTL. Redis errors are logged and ignored.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Printf("rate store: redis set %s: %v", key, err)
	}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
