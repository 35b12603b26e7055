package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

// dispatchConflict keeps the first timestamp of each status across retries and
// leaves a completed slot alone when a late "sent" arrives.
var dispatchConflict = qb.Conflict{
	Target: []string{"dispatch_id"},
	Where:  "deleted_at IS NULL",
	Excluded: []string{
		"job_name", "job_path", "scope", "payload", "status",
		"occurred_at", "trace_id", "span_id", "last_error",
	},
	Set: []string{
		"sent_at = COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at)",
		"completed_at = COALESCE(job_dispatches.completed_at, EXCLUDED.completed_at)",
		"failed_at = COALESCE(EXCLUDED.failed_at, job_dispatches.failed_at)",
		"updated_at = NOW()",
	},
	UpdateWhere: "NOT (job_dispatches.status = 'completed' AND EXCLUDED.status = 'sent')",
}

var dispatchColumns = []string{
	"dispatch_id", "job_name", "job_path", "scope", "payload::text AS payload", "status",
	"occurred_at", "trace_id", "span_id", "last_error", "sent_at", "completed_at", "failed_at",
}

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event dispatch.Event) error {
	event, err := event.Normalize(time.Now())
	if err != nil {
		return err
	}

	payload, err := marshalPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	query, args, err := qb.UpsertModel("job_dispatches", newJobDispatchRow(event, payload), dispatchConflict)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", event.DispatchID, event.Status, err)
	}
	return nil
}

// GetEvent returns the slot's latest state.
func (r *JobDispatchRepository) GetEvent(ctx context.Context, dispatchID string) (dispatch.Event, bool, error) {
	query, args, err := qb.Select(dispatchColumns...).
		From("job_dispatches").
		Where(qb.Eq("dispatch_id", strings.TrimSpace(dispatchID)), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return dispatch.Event{}, false, fmt.Errorf("build get job dispatch query: %w", err)
	}

	var row jobDispatchRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return dispatch.Event{}, false, nil
		}
		return dispatch.Event{}, false, fmt.Errorf("get job dispatch dispatch_id=%s: %w", dispatchID, err)
	}

	payload, err := unmarshalPayload(row.Payload)
	if err != nil {
		return dispatch.Event{}, false, fmt.Errorf("decode job dispatch payload dispatch_id=%s: %w", dispatchID, err)
	}
	return row.toEvent(payload), true, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.MarshalString(payload)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func unmarshalPayload(raw string) (map[string]any, error) {
	out := map[string]any{}
	if raw = strings.TrimSpace(raw); raw == "" {
		return out, nil
	}
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
