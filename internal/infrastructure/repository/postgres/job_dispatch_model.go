package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
)

// jobDispatchRow is the current state of one dispatch slot. The per-status
// timestamps keep the slot's history once later states overwrite occurred_at.
type jobDispatchRow struct {
	DispatchID  string         `db:"dispatch_id"`
	JobName     string         `db:"job_name"`
	JobPath     string         `db:"job_path"`
	Scope       string         `db:"scope"`
	Payload     string         `db:"payload"`
	Status      string         `db:"status"`
	OccurredAt  time.Time      `db:"occurred_at"`
	TraceID     sql.NullString `db:"trace_id"`
	SpanID      sql.NullString `db:"span_id"`
	LastError   sql.NullString `db:"last_error"`
	SentAt      sql.NullTime   `db:"sent_at"`
	CompletedAt sql.NullTime   `db:"completed_at"`
	FailedAt    sql.NullTime   `db:"failed_at"`
}

func newJobDispatchRow(event dispatch.Event, payload string) jobDispatchRow {
	row := jobDispatchRow{
		DispatchID: event.DispatchID,
		JobName:    event.JobName,
		JobPath:    event.JobPath,
		Scope:      event.Scope,
		Payload:    payload,
		Status:     string(event.Status),
		OccurredAt: event.OccurredAt,
		TraceID:    nullString(event.TraceID),
		SpanID:     nullString(event.SpanID),
		LastError:  nullString(event.ErrorMessage),
	}
	at := sql.NullTime{Time: event.OccurredAt, Valid: true}
	switch event.Status {
	case dispatch.StatusSent:
		row.SentAt = at
	case dispatch.StatusCompleted:
		row.CompletedAt = at
	case dispatch.StatusFailed:
		row.FailedAt = at
	}
	return row
}

func (r jobDispatchRow) toEvent(payload map[string]any) dispatch.Event {
	return dispatch.Event{
		DispatchID:   r.DispatchID,
		JobName:      r.JobName,
		JobPath:      r.JobPath,
		Scope:        r.Scope,
		Status:       dispatch.Status(r.Status),
		Payload:      payload,
		ErrorMessage: r.LastError.String,
		OccurredAt:   r.OccurredAt.UTC(),
		TraceID:      r.TraceID.String,
		SpanID:       r.SpanID.String,
	}
}

func nullString(v string) sql.NullString {
	if p := optionalString(v); p != nil {
		return sql.NullString{String: *p, Valid: true}
	}
	return sql.NullString{}
}
