package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandlerFormats(t *testing.T) {
	var text bytes.Buffer
	slog.New(baseHandler(&text, true)).Debug("goal logged", "goal_id", "g1")
	assert.Contains(t, text.String(), "msg=\"goal logged\"")
	assert.Contains(t, text.String(), "goal_id=g1")

	var js bytes.Buffer
	prod := slog.New(baseHandler(&js, false))
	prod.Debug("hidden")
	assert.Zero(t, js.Len(), "production drops debug records")

	prod.Info("goal logged", "goal_id", "g1")
	var record map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &record))
	assert.Equal(t, "goal logged", record["msg"])
	assert.Equal(t, "g1", record["goal_id"])
}

func TestCombineFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := combine([]slog.Handler{baseHandler(&a, false), baseHandler(&b, false)})

	slog.New(h).Info("hello")
	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")

	single := baseHandler(&a, false)
	assert.Equal(t, single, combine([]slog.Handler{single}))
	assert.True(t, single.Enabled(context.Background(), slog.LevelInfo))
}
