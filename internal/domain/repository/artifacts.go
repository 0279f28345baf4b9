package repository

import (
	"context"
	"errors"

	"SalesCast/internal/domain/models"
)

// ErrArtifactNotFound is returned by stores when a named artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore persists fitted model artifacts as opaque blobs.
type ArtifactStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}

// TrainingSource yields historical records for the offline fitting pass.
type TrainingSource interface {
	Records(ctx context.Context) ([]models.Record, error)
}

// Metrics records forecast outcomes.
type Metrics interface {
	RecordPrediction(path, outcome string)
	RecordLatency(path string, seconds float64)
	SetModelsLoaded(loaded bool)
}
