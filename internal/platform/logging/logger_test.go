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

func newObserved(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_RedactsCredentialKeys(t *testing.T) {
	t.Parallel()

	logger, logs := newObserved(LevelInfo)
	logger.Info("push sent", "device_token", "fcm-token-abcdef", "user_id", "u1", "Token", "xy")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["device_token"]; got != "***cdef" {
		t.Fatalf("unexpected device_token: got=%v want=***cdef", got)
	}
	if got := fields["Token"]; got != "***" {
		t.Fatalf("unexpected short token: got=%v want=***", got)
	}
	if got := fields["user_id"]; got != "u1" {
		t.Fatalf("unexpected user_id: got=%v want=u1", got)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	logger, logs := newObserved(LevelDebug)
	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.WarnContext(ctx, "kickoff run", "error", errors.New("boom"))
	logger.Debug("plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("unexpected trace fields: %v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("expected no trace id without span context")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	logger, logs := newObserved(LevelWarn)
	logger.Info("dropped")
	logger.With("job", "kickoff-notifications").Error("kept", "odd")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected level: got=%s want=error", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["job"] != "kickoff-notifications" {
		t.Fatalf("unexpected job field: %v", fields["job"])
	}
	if v, ok := fields["odd"]; !ok || v != nil {
		t.Fatalf("unexpected dangling key value: %v", fields)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("unexpected level for %q: got=%s want=%s", in, got, want)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("nil receiver")
	if err := logger.Sync(); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}
}
