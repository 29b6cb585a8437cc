package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFromContext(t *testing.T) {
	logger := zap.NewExample()
	ctx := NewContext(context.Background(), logger)

	fallback := zap.NewNop()
	assert.Same(t, logger, FromContext(ctx, fallback))
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authkey.log")

	logger := New(zapcore.InfoLevel, path, true)
	logger.Info("registered", zap.String("transactionId", "abc"))
	logger.Debug("hidden")
	_ = logger.Sync() // stdout may not support fsync

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transactionId":"abc"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}
