package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) ListByKickoffRange(_ context.Context, from, to time.Time, status string) ([]match.Match, error) {
	return r.filter(func(item match.Match) bool {
		return !item.KickoffAt.Before(from) && item.KickoffAt.Before(to) && item.Status == status
	}), nil
}

func (r *MatchRepository) ListKickoffBefore(_ context.Context, before time.Time) ([]match.Match, error) {
	return r.filter(func(item match.Match) bool {
		return item.KickoffAt.Before(before)
	}), nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, side match.Side, teamID string) ([]match.Match, error) {
	return r.filter(func(item match.Match) bool {
		switch side {
		case match.SideHome:
			return item.HomeTeamID == teamID
		case match.SideAway:
			return item.AwayTeamID == teamID
		default:
			return false
		}
	}), nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.store.PutMatches(item)
	return nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.store.matches {
		if keep(item) {
			out = append(out, cloneMatch(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
