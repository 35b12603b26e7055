package user

import (
	"sort"
	"strings"
	"time"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

// User holds the follow state and push registration of one account.
type User struct {
	ID              string
	FavoriteTeamIDs []string
	DeviceToken     string
	UpdatedAt       time.Time
}

func (u User) HasDeviceToken() bool {
	return strings.TrimSpace(u.DeviceToken) != ""
}

// NormalizeTeamIDs trims, drops blanks and duplicates, and sorts the team ids.
func NormalizeTeamIDs(teamIDs []string) []string {
	if len(teamIDs) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(teamIDs))
	out := make([]string, 0, len(teamIDs))
	for _, raw := range teamIDs {
		teamID := strings.TrimSpace(raw)
		if teamID == "" {
			continue
		}
		if _, ok := seen[teamID]; ok {
			continue
		}
		seen[teamID] = struct{}{}
		out = append(out, teamID)
	}
	sort.Strings(out)
	return out
}
