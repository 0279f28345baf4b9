package repository

import (
	"context"
	"errors"
	"fmt"

	domrepo "SalesCast/internal/domain/repository"
	"SalesCast/pkg/cache"
)

// RedisArtifactStore keeps artifacts as Redis string values under "<prefix>:<name>".
type RedisArtifactStore struct {
	c cache.Service
}

func NewRedisArtifactStore(c cache.Service) *RedisArtifactStore {
	return &RedisArtifactStore{c: c}
}

func (s *RedisArtifactStore) Load(ctx context.Context, name string) ([]byte, error) {
	b, err := s.c.GetBytes(ctx, name)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("%s: %w", name, domrepo.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return b, nil
}

// Save stores the artifact without expiry.
func (s *RedisArtifactStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.c.SetBytes(ctx, name, data, 0); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (s *RedisArtifactStore) Close() error { return s.c.Close() }

var _ domrepo.ArtifactStore = (*RedisArtifactStore)(nil)
