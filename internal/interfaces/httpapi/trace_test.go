package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"/healthz":                                false,
		" /Readyz ":                               false,
		"/livez":                                  false,
		"/v1/me/attendance-stats":                 true,
		"/v1/internal/jobs/kickoff-notifications": true,
		"/v1/internal/triggers/match-updated":     true,
		"/docs":                                   true,
	}
	for path, want := range cases {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("unexpected trace decision for %q: got=%v want=%v", path, got, want)
		}
	}
}

func TestHandlerSpan_NoParentIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := handlerSpan(ctx, "Healthz")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() || span.IsRecording() {
		t.Fatalf("expected no-op span without a parent")
	}
	if trace.SpanFromContext(got).SpanContext().IsValid() {
		t.Fatalf("unexpected span in context")
	}
}
