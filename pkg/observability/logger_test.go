package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("tenant", "t1").Info("tenant created")

	line := logLine(t, &buf)
	assert.Equal(t, "tenant created", line["msg"])
	assert.Equal(t, "t1", line["tenant"])
	assert.Equal(t, "INFO", line["level"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Info("should be dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("should be written")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf)

	logger.WithFields(map[string]interface{}{
		"method": "GET",
		"status": 200,
	}).WithError(assert.AnError).Debug("request done")

	line := logLine(t, &buf)
	assert.Equal(t, "request done", line["msg"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, float64(200), line["status"])
	assert.Equal(t, assert.AnError.Error(), line["error"])
}

func TestContextRequestAndUserID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "u1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "u1", GetUserID(ctx))
}

func TestLogger_DerivedLoggersAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(InfoLevel, &buf)

	base.WithField("scope", "derived").Info("first")
	buf.Reset()

	base.Info("second")
	line := logLine(t, &buf)
	assert.NotContains(t, line, "scope")
}
