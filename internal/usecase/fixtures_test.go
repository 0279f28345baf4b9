package usecase

import (
	"context"
	"fmt"
	"sync"

	"SalesCast/internal/domain/models"
	domrepo "SalesCast/internal/domain/repository"
)

const (
	preprocessorJSON = `{
  "version": 1,
  "aov": {
    "group_cols": ["Store_id", "Store_Type"],
    "maps": {"Store_id": {"1": 50}, "Store_Type": {"S1": 40}},
    "global_aov": 45
  }
}`
	sarimaxJSON = `{
  "intercept": 100,
  "exog_names": ["holiday", "discount"],
  "exog_coef": [20, 10],
  "sigma2": 4
}`
	catboostJSON = `{
  "features": [
    {"name": "Holiday", "type": "float"},
    {"name": "AOV_Store_Type", "type": "float"}
  ],
  "trees": [
    {"splits": [{"feature": 0, "border": 0.5}, {"feature": 1, "border": 42}], "leaf_values": [1, 2, 3, 4]}
  ],
  "bias": 100
}`
	residualJSON = `{"residual_std": 10}`
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func fullStore() *memStore {
	names := DefaultArtifactNames()
	s := newMemStore()
	s.blobs[names.Preprocessor] = []byte(preprocessorJSON)
	s.blobs[names.TimeSeries] = []byte(sarimaxJSON)
	s.blobs[names.Tabular] = []byte(catboostJSON)
	s.blobs[names.Residual] = []byte(residualJSON)
	return s
}

func (s *memStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domrepo.ErrArtifactNotFound)
	}
	return b, nil
}

func (s *memStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Close() error { return nil }

type sliceSource struct {
	rows []models.Record
	err  error
}

func (s sliceSource) Records(context.Context) ([]models.Record, error) { return s.rows, s.err }

type recordingMetrics struct {
	mu          sync.Mutex
	predictions map[string]int
	latencies   int
	loaded      *bool
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{predictions: map[string]int{}}
}

func (m *recordingMetrics) RecordPrediction(path, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions[path+"/"+outcome]++
}

func (m *recordingMetrics) RecordLatency(string, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies++
}

func (m *recordingMetrics) SetModelsLoaded(loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = &loaded
}
