package server

import (
	"context"
	"testing"
	"time"

	xhttp "SalesCast/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct{ closed int }

func (c *closeCounter) Load(context.Context, string) ([]byte, error) { return nil, nil }
func (c *closeCounter) Save(context.Context, string, []byte) error { return nil }
func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestRunContextShutsDown(t *testing.T) {
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetrics(false, ""),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	store := &closeCounter{}
	app := New(srv, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, 1, store.closed)
}
