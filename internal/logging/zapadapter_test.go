package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZapLoggerForwardsToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(DebugLevel, &buf)

	zl := NewZapLogger(logger)
	zl.Info("fit completed", zap.String("session_id", "abc"), zap.Bool("success", true))
	require.NoError(t, zl.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "fit completed", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, true, entry["success"])
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(ErrorLevel, &buf)

	zl := NewZapLogger(logger)
	zl.Debug("noise")
	zl.Info("still noise")
	assert.Zero(t, buf.Len())

	zl.Error("signal")
	assert.NotZero(t, buf.Len())
}

func TestZapLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)

	zl := NewZapLogger(logger).With(zap.String("component", "estimator"))
	zl.Warn("slow fit")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "estimator", entry["component"])
	assert.Equal(t, "WARN", entry["level"])
}
