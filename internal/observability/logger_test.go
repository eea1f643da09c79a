package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestLoggerFromContext_WithoutID(t *testing.T) {
	assert.Same(t, Logger(), LoggerFromContext(context.Background()))
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("debug")
	assert.Equal(t, slog.LevelDebug, level.Level())

	SetLevel("WARN")
	assert.Equal(t, slog.LevelWarn, level.Level())

	SetLevel("nonsense")
	assert.Equal(t, slog.LevelInfo, level.Level())
}
