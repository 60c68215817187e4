// cache — кэш страниц поиска hh.ru в Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageStore — минимальный контракт хранилища закэшированных страниц.
type PageStore interface {
	// Get возвращает данные и признак их наличия в кэше.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет данные с TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Close закрывает клиент.
	Close() error
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func NewRedisStore(ctx context.Context, redisURL string) (PageStore, error) {
	const op = "cache/NewRedisStore"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &redisStore{rdb: rdb}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return b, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

func (s *redisStore) Close() error { return s.rdb.Close() }
