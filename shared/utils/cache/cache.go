// Package cache provides the JSON value cache used for project reads.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache stores JSON-encoded values under string keys.
// Get reports whether the key was found and decodes the value into dest.
// Set with a zero ttl stores the value without expiry.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

var ErrNotInitialized = errors.New("cache not initialized")

// DefaultTTL is used for project read entries.
const DefaultTTL = 5 * time.Minute
