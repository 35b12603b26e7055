package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

func TestMarshalPayload_EmptyIsObject(t *testing.T) {
	t.Parallel()

	got, err := marshalPayload(nil)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if got != "{}" {
		t.Fatalf("unexpected payload: got=%q want=%q", got, "{}")
	}
}

func TestUnmarshalPayload(t *testing.T) {
	t.Parallel()

	raw, err := marshalPayload(map[string]any{"job": "kickoff-notifications"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	got, err := unmarshalPayload(raw)
	if err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got["job"] != "kickoff-notifications" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	empty, err := unmarshalPayload("  ")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("unexpected empty payload: %+v err=%v", empty, err)
	}
	if _, err := unmarshalPayload("{broken"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDispatchUpsertQuery(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	event := dispatch.Event{
		DispatchID: "kickoff-notifications:202603010930",
		JobName:    "kickoff-notifications",
		JobPath:    "/v1/internal/jobs/kickoff-notifications",
		Scope:      "global",
		Status:     dispatch.StatusCompleted,
		OccurredAt: at,
		TraceID:    "trace-1",
	}

	query, args, err := qb.UpsertModel("job_dispatches", newJobDispatchRow(event, "{}"), dispatchConflict)
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO job_dispatches (dispatch_id, job_name, job_path, scope, payload, status, occurred_at, trace_id, span_id, last_error, sent_at, completed_at, failed_at) VALUES ($1,") {
		t.Fatalf("unexpected insert head: %s", query)
	}
	if !strings.HasSuffix(query, "WHERE NOT (job_dispatches.status = 'completed' AND EXCLUDED.status = 'sent')") {
		t.Fatalf("expected completed slots to ignore late sent events: %s", query)
	}
	if len(args) != 13 {
		t.Fatalf("unexpected arg count: got=%d want=13", len(args))
	}
	completedAt, ok := args[11].(sql.NullTime)
	if !ok || !completedAt.Valid || !completedAt.Time.Equal(at) {
		t.Fatalf("unexpected completed_at arg: %#v", args[11])
	}
	if sentAt, _ := args[10].(sql.NullTime); sentAt.Valid {
		t.Fatalf("sent_at must stay null for a completed event: %#v", sentAt)
	}
	if spanID, _ := args[8].(sql.NullString); spanID.Valid {
		t.Fatalf("empty span id must be null: %#v", spanID)
	}
}

func TestJobDispatchRow_ToEvent(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	row := jobDispatchRow{
		DispatchID: "d-1",
		Status:     string(dispatch.StatusFailed),
		OccurredAt: time.Date(2026, 3, 1, 18, 0, 0, 0, seoul),
		LastError:  sql.NullString{String: "fcm down", Valid: true},
	}
	got := row.toEvent(map[string]any{})
	if got.Status != dispatch.StatusFailed || got.ErrorMessage != "fcm down" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.OccurredAt.Location() != time.UTC || got.OccurredAt.Hour() != 9 {
		t.Fatalf("expected occurred_at in UTC: %s", got.OccurredAt)
	}
}
