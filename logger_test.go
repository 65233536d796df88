package primstore

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/primstore/hashmap"
)

func TestLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, slog.LevelDebug)

	m, err := hashmap.New[int64, int64](hashmap.WithCapacity(11), hashmap.WithLogger(logger))
	require.NoError(t, err)
	for k := range int64(6) {
		m.Put(k, k)
	}

	assert.Contains(t, buf.String(), `"msg":"hashmap rehash"`)
	assert.Contains(t, buf.String(), `"lib":"primstore"`)

	buf.Reset()
	text := NewTextLogger(&buf, slog.LevelInfo)
	text.Debug("hidden")
	text.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")

	assert.False(t, NoopLogger().Enabled(t.Context(), slog.LevelError))
}
