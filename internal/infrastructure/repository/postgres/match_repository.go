package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", strings.TrimSpace(matchID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByKickoffRange(ctx context.Context, from, to time.Time, status string) ([]match.Match, error) {
	return r.list(ctx, "list matches by kickoff range",
		qb.Window("kickoff_at", from.UTC(), to.UTC()),
		qb.Eq("status", match.NormalizeStatus(status)),
		qb.IsNull("deleted_at"),
	)
}

func (r *MatchRepository) ListKickoffBefore(ctx context.Context, before time.Time) ([]match.Match, error) {
	return r.list(ctx, "list matches kicking off before",
		qb.Before("kickoff_at", before.UTC()),
		qb.IsNull("deleted_at"),
	)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, side match.Side, teamID string) ([]match.Match, error) {
	column := "home_team_id"
	if side == match.SideAway {
		column = "away_team_id"
	}
	return r.list(ctx, "list matches by team",
		qb.Eq(column, strings.TrimSpace(teamID)),
		qb.IsNull("deleted_at"),
	)
}

func (r *MatchRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	updatedAt := item.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	insertModel := matchInsertModel{
		PublicID:      strings.TrimSpace(item.ID),
		League:        item.League,
		HomeTeamID:    item.HomeTeamID,
		HomeTeamName:  item.HomeTeamName,
		HomeTeamLogo:  item.HomeTeamLogo,
		AwayTeamID:    item.AwayTeamID,
		AwayTeamName:  item.AwayTeamName,
		AwayTeamLogo:  item.AwayTeamLogo,
		KickoffAt:     item.KickoffAt.UTC(),
		Stadium:       item.Stadium,
		Broadcast:     item.Broadcast,
		Status:        match.NormalizeStatus(item.Status),
		HomeScore:     intPtrToNull(item.HomeScore),
		AwayScore:     intPtrToNull(item.AwayScore),
		FollowedBoost: item.FollowedBoost,
		UpdatedAt:     updatedAt,
	}
	if item.ExternalID > 0 {
		insertModel.ExternalID = sql.NullInt64{Int64: item.ExternalID, Valid: true}
	}

	query, args, err := qb.UpsertModel("matches", insertModel, qb.Conflict{
		Target: []string{"public_id"},
		Where:  "deleted_at IS NULL",
		Set:    []string{"deleted_at = NULL"},
	})
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match id=%s: %w", insertModel.PublicID, err)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.PublicID,
		League:        row.League,
		HomeTeamID:    row.HomeTeamID,
		HomeTeamName:  row.HomeTeamName,
		HomeTeamLogo:  row.HomeTeamLogo,
		AwayTeamID:    row.AwayTeamID,
		AwayTeamName:  row.AwayTeamName,
		AwayTeamLogo:  row.AwayTeamLogo,
		KickoffAt:     row.KickoffAt.UTC(),
		Stadium:       row.Stadium,
		Broadcast:     row.Broadcast,
		Status:        match.NormalizeStatus(row.Status),
		HomeScore:     nullIntToPtr(row.HomeScore),
		AwayScore:     nullIntToPtr(row.AwayScore),
		FollowedBoost: row.FollowedBoost,
		ExternalID:    row.ExternalID.Int64,
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}
