package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

type PreferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) ListOptedIn(ctx context.Context, matchID string, flag preference.Flag) ([]preference.Preference, error) {
	column, ok := flagColumn(flag)
	if !ok {
		return nil, fmt.Errorf("unknown notification flag %q", flag)
	}
	return r.list(ctx, "list opted-in preferences",
		qb.Eq("match_public_id", strings.TrimSpace(matchID)),
		qb.Eq(column, true),
		qb.IsNull("deleted_at"),
	)
}

func (r *PreferenceRepository) ListByMatch(ctx context.Context, matchID string) ([]preference.Preference, error) {
	return r.list(ctx, "list preferences by match",
		qb.Eq("match_public_id", strings.TrimSpace(matchID)),
		qb.IsNull("deleted_at"),
	)
}

func (r *PreferenceRepository) GetByMatchAndUser(ctx context.Context, matchID, userID string) (preference.Preference, bool, error) {
	query, args, err := qb.Select("*").From("notification_preferences").
		Where(
			qb.Eq("match_public_id", strings.TrimSpace(matchID)),
			qb.Eq("user_id", strings.TrimSpace(userID)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return preference.Preference{}, false, fmt.Errorf("build get preference query: %w", err)
	}

	var row preferenceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return preference.Preference{}, false, nil
		}
		return preference.Preference{}, false, fmt.Errorf("get preference: %w", err)
	}
	return preferenceFromRow(row), true, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	insertModel := preferenceInsertModel{
		PublicID:      strings.TrimSpace(item.ID),
		MatchID:       strings.TrimSpace(item.MatchID),
		UserID:        strings.TrimSpace(item.UserID),
		NotifyKickoff: item.NotifyKickoff,
		NotifyResult:  item.NotifyResult,
	}
	query, args, err := qb.UpsertModel("notification_preferences", insertModel, qb.Conflict{
		Target:   []string{"public_id"},
		Where:    "deleted_at IS NULL",
		Excluded: []string{"notify_kickoff", "notify_result"},
		Set:      []string{"updated_at = NOW()"},
	})
	if err != nil {
		return fmt.Errorf("build upsert preference query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert preference id=%s: %w", insertModel.PublicID, err)
	}
	return nil
}

func (r *PreferenceRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]preference.Preference, error) {
	query, args, err := qb.Select("*").From("notification_preferences").
		Where(conditions...).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []preferenceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]preference.Preference, 0, len(rows))
	for _, row := range rows {
		out = append(out, preferenceFromRow(row))
	}
	return out, nil
}

func flagColumn(flag preference.Flag) (string, bool) {
	switch flag {
	case preference.FlagKickoff:
		return "notify_kickoff", true
	case preference.FlagResult:
		return "notify_result", true
	default:
		return "", false
	}
}

func preferenceFromRow(row preferenceTableModel) preference.Preference {
	return preference.Preference{
		ID:            row.PublicID,
		MatchID:       row.MatchID,
		UserID:        row.UserID,
		NotifyKickoff: row.NotifyKickoff,
		NotifyResult:  row.NotifyResult,
	}
}
