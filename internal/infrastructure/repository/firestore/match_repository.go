package firestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
)

type MatchRepository struct {
	client *gfs.Client
}

func NewMatchRepository(client *gfs.Client) *MatchRepository {
	return &MatchRepository{client: client}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, false, nil
	}

	snap, err := r.client.Collection(schedulesCollection).Doc(matchID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get schedule %s: %w", matchID, err)
	}

	var doc scheduleDoc
	if err := snap.DataTo(&doc); err != nil {
		return match.Match{}, false, fmt.Errorf("decode schedule %s: %w", matchID, err)
	}
	return matchFromDoc(snap.Ref.ID, doc), true, nil
}

func (r *MatchRepository) ListByKickoffRange(ctx context.Context, from, to time.Time, status string) ([]match.Match, error) {
	query := r.client.Collection(schedulesCollection).
		Where("kickoff", ">=", from.UTC()).
		Where("kickoff", "<", to.UTC()).
		Where("status", "==", match.NormalizeStatus(status))
	return r.list(ctx, "list schedules by kickoff range", query)
}

func (r *MatchRepository) ListKickoffBefore(ctx context.Context, before time.Time) ([]match.Match, error) {
	query := r.client.Collection(schedulesCollection).Where("kickoff", "<", before.UTC())
	return r.list(ctx, "list schedules kicking off before", query)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, side match.Side, teamID string) ([]match.Match, error) {
	field := "homeTeamId"
	if side == match.SideAway {
		field = "awayTeamId"
	}
	query := r.client.Collection(schedulesCollection).Where(field, "==", strings.TrimSpace(teamID))
	return r.list(ctx, "list schedules by team", query)
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	matchID := strings.TrimSpace(item.ID)
	if matchID == "" {
		return fmt.Errorf("upsert schedule: match id is required")
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now().UTC()
	}
	if _, err := r.client.Collection(schedulesCollection).Doc(matchID).Set(ctx, scheduleDocFromMatch(item)); err != nil {
		return fmt.Errorf("upsert schedule %s: %w", matchID, err)
	}
	return nil
}

func (r *MatchRepository) list(ctx context.Context, op string, query gfs.Query) ([]match.Match, error) {
	out := make([]match.Match, 0)
	err := getAll(ctx, query, func(id string, doc scheduleDoc) error {
		out = append(out, matchFromDoc(id, doc))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
