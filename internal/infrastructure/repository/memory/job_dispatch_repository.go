package memory

import (
	"context"
	"maps"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
)

type JobDispatchRepository struct {
	store *Store
}

func NewJobDispatchRepository(store *Store) *JobDispatchRepository {
	return &JobDispatchRepository{store: store}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event dispatch.Event) error {
	event, err := event.Normalize(time.Now())
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if current, ok := r.store.dispatches[event.DispatchID]; ok && !current.Status.Accepts(event.Status) {
		return nil
	}
	event.Payload = maps.Clone(event.Payload)
	r.store.dispatches[event.DispatchID] = event
	return nil
}

func (r *JobDispatchRepository) GetEvent(_ context.Context, dispatchID string) (dispatch.Event, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	event, ok := r.store.dispatches[dispatchID]
	if !ok {
		return dispatch.Event{}, false, nil
	}
	event.Payload = maps.Clone(event.Payload)
	return event, true, nil
}
