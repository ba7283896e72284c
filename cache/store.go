package cache

import (
	"context"
	"errors"
)

// ErrNotFound reports a missing backup file. Cache misses are reported
// through Get's bool instead.
var ErrNotFound = errors.New("cache: key not found")

// Store is a string key/value cache tier.
type Store interface {
	// Get returns the value and whether it was present. err is set only
	// when the tier itself failed.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Name() string
}
