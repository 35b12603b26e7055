package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	attendancemock "github.com/riskibarqy/matchday-alerts/internal/mocks/domain/attendance"
)

func TestStatsAggregator_GetStats(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutAttendance(
		attendance.Record{ID: "r1", UserID: "u1", League: "K League 1", Stadium: "Munsu", HomeScore: intPtr(2), AwayScore: intPtr(1)},
		attendance.Record{ID: "r2", UserID: "u1", League: "K League 1", Stadium: "Munsu", HomeScore: intPtr(1), AwayScore: intPtr(1)},
		attendance.Record{ID: "r3", UserID: "u1", League: "AFC", Stadium: "Seoul World Cup", HomeScore: intPtr(0), AwayScore: intPtr(3)},
		attendance.Record{ID: "r4", UserID: "u1", League: "AFC", Stadium: "Seoul World Cup", HomeScore: intPtr(1)},
		attendance.Record{ID: "r5", UserID: "u2", League: "K League 2", Stadium: "Other", HomeScore: intPtr(5), AwayScore: intPtr(0)},
	)

	report, err := NewStatsAggregator(repos.attendance).GetStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}

	if report.TotalMatches != 4 {
		t.Fatalf("unexpected total: got=%d want=4", report.TotalMatches)
	}
	if report.Wins != 1 || report.Draws != 1 || report.Losses != 1 {
		t.Fatalf("unexpected w/d/l: %+v", report)
	}
	if report.StadiumVisits["Munsu"] != 2 || report.StadiumVisits["Seoul World Cup"] != 2 || len(report.StadiumVisits) != 2 {
		t.Fatalf("unexpected stadium visits: %+v", report.StadiumVisits)
	}
	if report.LeagueCount["K League 1"] != 2 || report.LeagueCount["AFC"] != 2 || len(report.LeagueCount) != 2 {
		t.Fatalf("unexpected league count: %+v", report.LeagueCount)
	}
}

func TestStatsAggregator_NoRecordsGivesEmptyMaps(t *testing.T) {
	t.Parallel()

	report, err := NewStatsAggregator(newTestRepos().attendance).GetStats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if report.TotalMatches != 0 || report.StadiumVisits == nil || report.LeagueCount == nil {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestStatsAggregator_RequiresUser(t *testing.T) {
	t.Parallel()

	_, err := NewStatsAggregator(newTestRepos().attendance).GetStats(context.Background(), "  ")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrUnauthorized)
	}
}

func TestStatsAggregator_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	repo := attendancemock.NewRepository(t)
	storeErr := errors.New("attendance unavailable")
	repo.On("ListByUser", mock.Anything, "u1").Return(nil, storeErr).Once()

	_, err := NewStatsAggregator(repo).GetStats(context.Background(), "u1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("unexpected error: got=%v want=%v", err, storeErr)
	}
}
