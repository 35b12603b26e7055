package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
)

// Side selects which participant column a team query matches against.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Match is one scheduled fixture as stored in the schedules collection.
type Match struct {
	ID            string
	League        string
	HomeTeamID    string
	HomeTeamName  string
	HomeTeamLogo  string
	AwayTeamID    string
	AwayTeamName  string
	AwayTeamLogo  string
	KickoffAt     time.Time
	Stadium       string
	Broadcast     string
	Status        string
	HomeScore     *int
	AwayScore     *int
	FollowedBoost bool
	ExternalID    int64
	UpdatedAt     time.Time
}

func (m Match) IsFinished() bool {
	return IsFinishedStatus(m.Status)
}

// OpponentOf returns the other participant of the match, or "" when teamID does not play in it.
func (m Match) OpponentOf(teamID string) string {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "":
		return StatusScheduled
	case "ft", "aet", "pen", "full_time", "full-time":
		return StatusFinished
	case "in_play", "in-play", "ht", "1h", "2h", "et":
		return StatusLive
	default:
		return status
	}
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}
