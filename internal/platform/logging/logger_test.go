package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerContextAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WarnContext(ctx, "skip league", "league_id", int64(2), "error", errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, int64(2), fields["league_id"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestLoggerOddArgsAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("component", "sync")

	logger.Debug("hidden")
	logger.Info("dangling", "key")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "sync", fields["component"])
	assert.Contains(t, fields, "key")
}

func TestNewWritesJSONAndConsole(t *testing.T) {
	var jsonBuf bytes.Buffer
	New(Options{Level: LevelInfo, Format: FormatJSON, Writer: &jsonBuf}).Info("hello", "rows", 3)
	assert.True(t, strings.HasPrefix(jsonBuf.String(), "{"))
	assert.Contains(t, jsonBuf.String(), `"rows":3`)
	assert.Contains(t, jsonBuf.String(), `"level":"INFO"`)

	var consoleBuf bytes.Buffer
	New(Options{Level: LevelInfo, Format: FormatConsole, Writer: &consoleBuf}).Info("hello")
	assert.Contains(t, consoleBuf.String(), "hello")
	assert.False(t, strings.HasPrefix(consoleBuf.String(), "{"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		assert.NoError(t, logger.Sync())
	})
}
