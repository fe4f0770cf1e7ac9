package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisStore keeps entities in Redis under an optional key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

func (s *RedisStore) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	pattern := s.prefix + prefix + "*"
	out := make(map[string][]byte)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan error: %w", err)
		}

		if len(keys) > 0 {
			values, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("redis mget error: %w", err)
			}
			for i, v := range values {
				str, ok := v.(string)
				if !ok {
					// deleted between SCAN and MGET
					continue
				}
				out[strings.TrimPrefix(keys[i], s.prefix)] = []byte(str)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

// Ping checks if the Redis connection is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
