package memory

import (
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
)

const (
	LeagueKLeague1 = "K League 1"

	TeamIDUlsan   = "ulsan-hd"
	TeamIDJeonbuk = "jeonbuk-motors"
	TeamIDPohang  = "pohang-steelers"
	TeamIDSeoul   = "fc-seoul"
)

// SeedMatches returns a small fixture list around now for local runs of the memory driver.
func SeedMatches(now time.Time) []match.Match {
	now = now.UTC().Truncate(time.Minute)
	homeScore, awayScore := 2, 1

	return []match.Match{
		{
			ID:           "seed-ulsan-jeonbuk",
			League:       LeagueKLeague1,
			HomeTeamID:   TeamIDUlsan,
			HomeTeamName: "Ulsan HD",
			AwayTeamID:   TeamIDJeonbuk,
			AwayTeamName: "Jeonbuk Hyundai Motors",
			KickoffAt:    now.Add(32 * time.Minute),
			Stadium:      "Munsu Football Stadium",
			Broadcast:    "Coupang Play",
			Status:       match.StatusScheduled,
			UpdatedAt:    now,
		},
		{
			ID:           "seed-pohang-seoul",
			League:       LeagueKLeague1,
			HomeTeamID:   TeamIDPohang,
			HomeTeamName: "Pohang Steelers",
			AwayTeamID:   TeamIDSeoul,
			AwayTeamName: "FC Seoul",
			KickoffAt:    now.Add(-90 * time.Minute),
			Stadium:      "Pohang Steel Yard",
			Status:       match.StatusLive,
			UpdatedAt:    now,
		},
		{
			ID:           "seed-seoul-ulsan",
			League:       LeagueKLeague1,
			HomeTeamID:   TeamIDSeoul,
			HomeTeamName: "FC Seoul",
			AwayTeamID:   TeamIDUlsan,
			AwayTeamName: "Ulsan HD",
			KickoffAt:    now.AddDate(0, 0, -10),
			Stadium:      "Seoul World Cup Stadium",
			Status:       match.StatusFinished,
			HomeScore:    &homeScore,
			AwayScore:    &awayScore,
			UpdatedAt:    now,
		},
	}
}
