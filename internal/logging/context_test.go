package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Equal(t, ctx, WithRequestID(ctx, ""))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestZapLogger_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core))

	log.Info(WithRequestID(context.Background(), "req-7"), "hello")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	}
}

func TestWithContextFields_DoesNotTouchCallerSlice(t *testing.T) {
	args := make([]any, 2, 4)
	args[0], args[1] = "a", 1

	out := withContextFields(WithRequestID(context.Background(), "x"), args)

	assert.Len(t, out, 4)
	assert.Equal(t, []any{"a", 1}, args[:2])
	assert.Equal(t, []any{"a", 1}, args[:cap(args)][:2])
	assert.Nil(t, args[:cap(args)][2])
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	l := NewSlogLogger(nil)
	assert.NotNil(t, l)
	l.Info(context.Background(), "default logger")
}
