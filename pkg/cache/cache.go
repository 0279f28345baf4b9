package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines the key/value operations the artifact store relies on.
type Service interface {
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Close() error
}
