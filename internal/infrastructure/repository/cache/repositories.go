// Package cache decorates repositories with the in-process read-through store.
package cache

import (
	"context"
	"slices"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	basecache "github.com/riskibarqy/matchday-alerts/internal/platform/cache"
)

// AttendanceRepository caches attendance history per user. Attendance is
// written outside this service, so entries only age out through the TTL.
type AttendanceRepository struct {
	next  attendance.Repository
	store *basecache.Store[[]attendance.Record]
}

func NewAttendanceRepository(next attendance.Repository, store *basecache.Store[[]attendance.Record]) *AttendanceRepository {
	return &AttendanceRepository{next: next, store: store}
}

// ListByUser hands every caller its own copy; statistics code mutates score pointers freely.
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	records, err := r.store.Load(ctx, "attendance:user:"+userID, func(ctx context.Context) ([]attendance.Record, error) {
		return r.next.ListByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return copyRecords(records), nil
}

func (r *AttendanceRepository) Invalidate(userID string) {
	r.store.Delete("attendance:user:" + userID)
}

func copyRecords(records []attendance.Record) []attendance.Record {
	out := slices.Clone(records)
	for i := range out {
		if s := out[i].HomeScore; s != nil {
			home := *s
			out[i].HomeScore = &home
		}
		if s := out[i].AwayScore; s != nil {
			away := *s
			out[i].AwayScore = &away
		}
	}
	return out
}
