package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_PairsBecomeFields(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(zapcore.InfoLevel)
	logger.Info("season built", "year", 2018, "teams", 14)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["year"] != int64(2018) || fields["teams"] != int64(14) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLogger_ErrorValuesBecomeNamedErrors(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(zapcore.InfoLevel)
	logger.Error("load failed", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("unexpected error field: %v", got)
	}
}

func TestLogger_LevelGateApplies(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(zapcore.WarnLevel)
	logger.Debug("quiet")
	logger.Info("also quiet")
	logger.Warn("loud")

	if got := logs.Len(); got != 1 {
		t.Fatalf("got %d entries, want only the warn", got)
	}
}

func TestLogger_ContextVariantAppendsTraceIDs(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(zapcore.InfoLevel)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01},
		SpanID:  trace.SpanID{0x02},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	logger.InfoContext(ctx, "traced")

	fields := logs.All()[0].ContextMap()
	if fields["trace_id"] != spanCtx.TraceID().String() {
		t.Fatalf("unexpected trace_id: %v", fields["trace_id"])
	}
	if fields["span_id"] != spanCtx.SpanID().String() {
		t.Fatalf("unexpected span_id: %v", fields["span_id"])
	}
}

func TestLogger_ContextVariantSkipsInvalidSpan(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(zapcore.InfoLevel)
	logger.InfoContext(context.Background(), "untraced")

	fields := logs.All()[0].ContextMap()
	if _, ok := fields["trace_id"]; ok {
		t.Fatalf("trace_id attached without a span: %v", fields)
	}
}

func TestFromZap_NilFallsBackToNop(t *testing.T) {
	t.Parallel()

	logger := FromZap(nil)
	logger.Info("into the void")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
}
