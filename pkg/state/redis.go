package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/brewpoint/kiosk/pkg/config"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	raw *redis.Client
}

// NewRedis connects the state store to Redis. Kiosk fleets sharing one counter
// use this driver; writes are last-write-wins across terminals, matching the
// multi-tab model of the storage contract.
func NewRedis(ctx context.Context, cfg config.StateConfig) (Store, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.RedisDialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.RedisReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.RedisWriteTimeout
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisStore{raw: raw}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.raw.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	// State entries have no TTL: identity and cart survive until cleared.
	return s.raw.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.raw.Del(ctx, key).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.raw.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.raw.Close()
}
