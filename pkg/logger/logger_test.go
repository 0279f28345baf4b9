package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("request_id", "abc"))

	l.Info("predicted",
		String("route", "tabular"),
		Int("status", 200),
		Float64("value", 12.5),
		Bool("loaded", true),
		Error(errors.New("boom")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "predicted", got["message"])
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "abc", got["request_id"])
	assert.Equal(t, "tabular", got["route"])
	assert.Equal(t, 200.0, got["status"])
	assert.Equal(t, 12.5, got["value"])
	assert.Equal(t, true, got["loaded"])
	assert.Equal(t, "boom", got["error"])
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)
	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}
