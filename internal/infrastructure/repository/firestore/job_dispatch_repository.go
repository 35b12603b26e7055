package firestore

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
)

type JobDispatchRepository struct {
	client *gfs.Client
}

func NewJobDispatchRepository(client *gfs.Client) *JobDispatchRepository {
	return &JobDispatchRepository{client: client}
}

// UpsertEvent runs in a transaction so the completed-is-final rule holds
// against concurrent writers.
func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event dispatch.Event) error {
	event, err := event.Normalize(time.Now())
	if err != nil {
		return err
	}

	doc := jobDispatchDoc{
		JobName:      event.JobName,
		JobPath:      event.JobPath,
		Scope:        event.Scope,
		Status:       string(event.Status),
		Payload:      maps.Clone(event.Payload),
		ErrorMessage: event.ErrorMessage,
		OccurredAt:   event.OccurredAt,
		TraceID:      event.TraceID,
		SpanID:       event.SpanID,
	}

	ref := r.client.Collection(jobDispatchesCollection).Doc(event.DispatchID)
	err = r.client.RunTransaction(ctx, func(_ context.Context, tx *gfs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil && snap.Exists() {
			var current jobDispatchDoc
			if err := snap.DataTo(&current); err != nil {
				return err
			}
			if !dispatch.Status(current.Status).Accepts(event.Status) {
				return nil
			}
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", event.DispatchID, event.Status, err)
	}
	return nil
}

func (r *JobDispatchRepository) GetEvent(ctx context.Context, dispatchID string) (dispatch.Event, bool, error) {
	dispatchID = strings.TrimSpace(dispatchID)
	snap, err := r.client.Collection(jobDispatchesCollection).Doc(dispatchID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return dispatch.Event{}, false, nil
		}
		return dispatch.Event{}, false, fmt.Errorf("get job dispatch dispatch_id=%s: %w", dispatchID, err)
	}

	var doc jobDispatchDoc
	if err := snap.DataTo(&doc); err != nil {
		return dispatch.Event{}, false, fmt.Errorf("decode job dispatch dispatch_id=%s: %w", dispatchID, err)
	}
	return dispatch.Event{
		DispatchID:   snap.Ref.ID,
		JobName:      doc.JobName,
		JobPath:      doc.JobPath,
		Scope:        doc.Scope,
		Status:       dispatch.Status(doc.Status),
		Payload:      doc.Payload,
		ErrorMessage: doc.ErrorMessage,
		OccurredAt:   doc.OccurredAt.UTC(),
		TraceID:      doc.TraceID,
		SpanID:       doc.SpanID,
	}, true, nil
}
