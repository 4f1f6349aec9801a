package cache

import (
	"context"
	"time"
)

// Cache is the minimal surface the board module needs. A nil-safe Noop
// implementation keeps Redis optional in local development and unit tests.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop satisfies Cache without storing anything. Get always misses.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, error) { return "", ErrCacheMiss }

func (Noop) Set(ctx context.Context, key string, value string, ttl time.Duration) error { return nil }

func (Noop) Delete(ctx context.Context, keys ...string) error { return nil }
