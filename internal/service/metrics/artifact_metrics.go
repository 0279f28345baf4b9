package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	domrepo "SalesCast/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ArtifactLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salescast",
			Subsystem: "artifacts",
			Name:      "latency_seconds",
			Help:      "Latency of artifact store operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "artifact"},
	)

	ArtifactErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salescast",
			Subsystem: "artifacts",
			Name:      "errors_total",
			Help:      "Artifact store failures by operation and reason",
		},
		[]string{"op", "artifact", "reason"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ArtifactLatency, ArtifactErrors)
	})
}

// InstrumentedStore records latency and failures of an ArtifactStore.
type InstrumentedStore struct {
	next domrepo.ArtifactStore
}

// InstrumentStore wraps next and registers the collectors on first use.
func InstrumentStore(next domrepo.ArtifactStore) *InstrumentedStore {
	Register()
	return &InstrumentedStore{next: next}
}

func (s *InstrumentedStore) Load(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	b, err := s.next.Load(ctx, name)
	observe("load", name, start, err)
	return b, err
}

func (s *InstrumentedStore) Save(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := s.next.Save(ctx, name, data)
	observe("save", name, start, err)
	return err
}

func (s *InstrumentedStore) Close() error { return s.next.Close() }

func observe(op, name string, start time.Time, err error) {
	ArtifactLatency.WithLabelValues(op, name).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	reason := "error"
	if errors.Is(err, domrepo.ErrArtifactNotFound) {
		reason = "not_found"
	}
	ArtifactErrors.WithLabelValues(op, name, reason).Inc()
}
