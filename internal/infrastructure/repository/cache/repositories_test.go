package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	basecache "github.com/riskibarqy/matchday-alerts/internal/platform/cache"
)

type countingAttendanceRepo struct {
	calls int
	items []attendance.Record
}

func (r *countingAttendanceRepo) ListByUser(_ context.Context, _ string) ([]attendance.Record, error) {
	r.calls++
	return r.items, nil
}

func TestAttendanceRepository_CachesPerUserAndReturnsCopies(t *testing.T) {
	t.Parallel()

	score := 2
	next := &countingAttendanceRepo{items: []attendance.Record{{ID: "a-1", UserID: "u-1", HomeScore: &score}}}
	repo := NewAttendanceRepository(next, basecache.NewStore[[]attendance.Record](time.Minute, 0))
	ctx := context.Background()

	first, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	*first[0].HomeScore = 9

	second, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("unexpected upstream calls: got=%d want=%d", next.calls, 1)
	}
	if *second[0].HomeScore != 2 {
		t.Fatalf("cached record was mutated through a returned copy: got=%d", *second[0].HomeScore)
	}

	repo.Invalidate("u-1")
	if _, err := repo.ListByUser(ctx, "u-1"); err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected reload after invalidate: got=%d want=%d", next.calls, 2)
	}
}
