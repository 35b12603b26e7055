package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
)

type StatsReport struct {
	TotalMatches  int            `json:"totalMatches"`
	Wins          int            `json:"wins"`
	Draws         int            `json:"draws"`
	Losses        int            `json:"losses"`
	StadiumVisits map[string]int `json:"stadiumVisits"`
	LeagueCount   map[string]int `json:"leagueCount"`
}

type StatsAggregator struct {
	attendanceRepo attendance.Repository
}

func NewStatsAggregator(attendanceRepo attendance.Repository) *StatsAggregator {
	return &StatsAggregator{attendanceRepo: attendanceRepo}
}

func (s *StatsAggregator) GetStats(ctx context.Context, userID string) (StatsReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsAggregator.GetStats")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return StatsReport{}, fmt.Errorf("%w: user must be authenticated", ErrUnauthorized)
	}

	records, err := s.attendanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return StatsReport{}, fmt.Errorf("list attendance records user=%s: %w", userID, err)
	}

	return aggregateAttendance(records), nil
}

// aggregateAttendance scores each record from the home side's point of view.
func aggregateAttendance(records []attendance.Record) StatsReport {
	report := StatsReport{
		TotalMatches:  len(records),
		StadiumVisits: make(map[string]int),
		LeagueCount:   make(map[string]int),
	}

	for _, record := range records {
		report.StadiumVisits[record.Stadium]++
		report.LeagueCount[record.League]++

		if !record.HasScore() {
			continue
		}
		switch {
		case *record.HomeScore > *record.AwayScore:
			report.Wins++
		case *record.HomeScore < *record.AwayScore:
			report.Losses++
		default:
			report.Draws++
		}
	}

	return report
}
