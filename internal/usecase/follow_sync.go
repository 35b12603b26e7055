package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// FollowChange is one user's favorite-team set before and after a write.
type FollowChange struct {
	UserID   string   `json:"userId"`
	Previous []string `json:"previous"`
	Next     []string `json:"next"`
}

type FollowSyncResult struct {
	UserID           string   `json:"userId"`
	NewlyFollowed    []string `json:"newlyFollowed"`
	NewlyUnfollowed  []string `json:"newlyUnfollowed"`
	BoostedMatchIDs  []string `json:"boostedMatchIds"`
	ClearedMatchIDs  []string `json:"clearedMatchIds"`
	Committed        bool     `json:"committed"`
	StillFollowedIDs []string `json:"stillFollowedTeamIds"`
}

// FollowSyncEngine keeps Match.FollowedBoost in step with one user's follow delta.
// Concurrent unfollows of the same last-followed team are not serialized; the
// last writer can leave a boost set until the next follow change of that team.
type FollowSyncEngine struct {
	matchRepo match.Repository
	userRepo  user.Repository
	batches   writebatch.Factory
	logger    *logging.Logger
}

func NewFollowSyncEngine(
	matchRepo match.Repository,
	userRepo user.Repository,
	batches writebatch.Factory,
	logger *logging.Logger,
) *FollowSyncEngine {
	if logger == nil {
		logger = logging.Default()
	}
	return &FollowSyncEngine{
		matchRepo: matchRepo,
		userRepo:  userRepo,
		batches:   batches,
		logger:    logger,
	}
}

func (e *FollowSyncEngine) Sync(ctx context.Context, change FollowChange) (FollowSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FollowSyncEngine.Sync")
	defer span.End()

	previous := user.NormalizeTeamIDs(change.Previous)
	next := user.NormalizeTeamIDs(change.Next)
	result := FollowSyncResult{
		UserID:           strings.TrimSpace(change.UserID),
		NewlyFollowed:    difference(next, previous),
		NewlyUnfollowed:  difference(previous, next),
		BoostedMatchIDs:  []string{},
		ClearedMatchIDs:  []string{},
		StillFollowedIDs: []string{},
	}
	if len(result.NewlyFollowed) == 0 && len(result.NewlyUnfollowed) == 0 {
		return result, nil
	}

	batch := e.batches.NewBatch()

	boosted := make(map[string]struct{})
	for _, teamID := range result.NewlyFollowed {
		matches, err := e.listTeamMatches(ctx, teamID)
		if err != nil {
			return FollowSyncResult{}, err
		}
		for _, item := range matches {
			batch.SetMatchFollowedBoost(item.ID, true)
			boosted[item.ID] = struct{}{}
		}
	}

	followers := followerCache{repo: e.userRepo, known: make(map[string]bool)}
	cleared := make(map[string]struct{})
	for _, teamID := range result.NewlyUnfollowed {
		stillFollowed, err := followers.exists(ctx, teamID)
		if err != nil {
			return FollowSyncResult{}, err
		}
		if stillFollowed {
			result.StillFollowedIDs = append(result.StillFollowedIDs, teamID)
			continue
		}

		matches, err := e.listTeamMatches(ctx, teamID)
		if err != nil {
			return FollowSyncResult{}, err
		}
		for _, item := range matches {
			if _, ok := boosted[item.ID]; ok {
				continue
			}
			if opponent := item.OpponentOf(teamID); opponent != "" && opponent != teamID {
				opponentFollowed, err := followers.exists(ctx, opponent)
				if err != nil {
					return FollowSyncResult{}, err
				}
				if opponentFollowed {
					continue
				}
			}
			batch.SetMatchFollowedBoost(item.ID, false)
			cleared[item.ID] = struct{}{}
		}
	}

	result.BoostedMatchIDs = sortedKeys(boosted)
	result.ClearedMatchIDs = sortedKeys(cleared)
	if batch.Size() == 0 {
		return result, nil
	}

	if err := batch.Commit(ctx); err != nil {
		return FollowSyncResult{}, fmt.Errorf("commit follow sync batch user=%s: %w", result.UserID, err)
	}
	result.Committed = true

	e.logger.InfoContext(ctx, "follow sync applied",
		"user_id", result.UserID,
		"followed", len(result.NewlyFollowed),
		"unfollowed", len(result.NewlyUnfollowed),
		"boosted", len(result.BoostedMatchIDs),
		"cleared", len(result.ClearedMatchIDs),
	)
	return result, nil
}

// listTeamMatches returns the union of home and away matches of a team, keyed by match id.
func (e *FollowSyncEngine) listTeamMatches(ctx context.Context, teamID string) ([]match.Match, error) {
	var home, away []match.Match

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := e.matchRepo.ListByTeam(ctx, match.SideHome, teamID)
		if err != nil {
			return fmt.Errorf("list home matches team=%s: %w", teamID, err)
		}
		home = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := e.matchRepo.ListByTeam(ctx, match.SideAway, teamID)
		if err != nil {
			return fmt.Errorf("list away matches team=%s: %w", teamID, err)
		}
		away = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(home)+len(away))
	out := make([]match.Match, 0, len(home)+len(away))
	for _, item := range append(home, away...) {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// followerCache memoizes ExistsFollower for one invocation.
type followerCache struct {
	repo  user.Repository
	known map[string]bool
}

func (c followerCache) exists(ctx context.Context, teamID string) (bool, error) {
	if value, ok := c.known[teamID]; ok {
		return value, nil
	}
	value, err := c.repo.ExistsFollower(ctx, teamID)
	if err != nil {
		return false, fmt.Errorf("check followers team=%s: %w", teamID, err)
	}
	c.known[teamID] = value
	return value, nil
}

func difference(left, right []string) []string {
	exclude := make(map[string]struct{}, len(right))
	for _, item := range right {
		exclude[item] = struct{}{}
	}
	out := make([]string, 0, len(left))
	for _, item := range left {
		if _, ok := exclude[item]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
