package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
)

type AttendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

func (r *AttendanceRepository) ListByUser(_ context.Context, userID string) ([]attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]attendance.Record, 0)
	for _, item := range r.store.attendance {
		if item.UserID == userID {
			out = append(out, cloneRecord(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
