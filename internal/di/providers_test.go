package di

import (
	"bytes"
	"context"
	"testing"
	"time"

	"SalesCast/pkg/config"
	applogger "SalesCast/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideArtifactStoreLogsUnreachableRedis(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Artifacts.Backend = "redis"
	cfg.Artifacts.LoadTimeout = 500 * time.Millisecond
	cfg.Redis.Addr = "127.0.0.1:1"

	var buf bytes.Buffer
	store, err := ProvideArtifactStore(cfg, applogger.NewWithWriter(&buf, zerolog.DebugLevel))
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, buf.String(), "redis unreachable")
	assert.Contains(t, buf.String(), "127.0.0.1:1")
}

func TestProvideArtifactStoreFile(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Artifacts.Backend = "file"
	cfg.Artifacts.Dir = t.TempDir()

	store, err := ProvideArtifactStore(cfg, applogger.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "x.json", []byte(`{}`)))
	b, err := store.Load(context.Background(), "x.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))

	cfg.Artifacts.Backend = "s3"
	_, err = ProvideArtifactStore(cfg, applogger.Nop())
	assert.ErrorContains(t, err, "unknown artifact backend")
}
