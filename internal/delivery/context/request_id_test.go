package context

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestIDFromContext(ctx))
}

func TestGetLoggerOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	assert.Nil(t, GetLogger(ctx))
	assert.Same(t, fallback, GetLoggerOrDefault(ctx, fallback))

	scoped := fallback.With(slog.String("request_id", "req-123"))
	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, GetLogger(ctx))
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
}
