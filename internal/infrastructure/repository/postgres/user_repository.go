package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("user_id", strings.TrimSpace(userID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return user.User{
		ID:              row.UserID,
		FavoriteTeamIDs: append([]string(nil), row.FavoriteTeamIDs...),
		DeviceToken:     row.FCMToken.String,
		UpdatedAt:       row.UpdatedAt.UTC(),
	}, true, nil
}

// ExistsFollower is served by the GIN index on favorite_team_ids.
func (r *UserRepository) ExistsFollower(ctx context.Context, teamID string) (bool, error) {
	query, args, err := qb.Select("1").From("users").
		Where(
			qb.ArrayContains("favorite_team_ids", strings.TrimSpace(teamID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build exists follower query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists follower team=%s: %w", teamID, err)
	}
	return true, nil
}

func (r *UserRepository) SetDeviceToken(ctx context.Context, userID, token string, updatedAt time.Time) error {
	query, args, err := qb.InsertInto("users").
		Columns("user_id", "favorite_team_ids", "fcm_token", "updated_at").
		Values(strings.TrimSpace(userID), pq.Array([]string{}), strings.TrimSpace(token), updatedAt.UTC()).
		Suffix(userConflict("fcm_token").SQL()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set device token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set device token user=%s: %w", userID, err)
	}
	return nil
}

func (r *UserRepository) SetFavoriteTeams(ctx context.Context, userID string, teamIDs []string, updatedAt time.Time) error {
	query, args, err := qb.InsertInto("users").
		Columns("user_id", "favorite_team_ids", "updated_at").
		Values(strings.TrimSpace(userID), pq.Array(user.NormalizeTeamIDs(teamIDs)), updatedAt.UTC()).
		Suffix(userConflict("favorite_team_ids").SQL()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set favorite teams query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set favorite teams user=%s: %w", userID, err)
	}
	return nil
}

// userConflict upserts on the live user row, touching only column and updated_at.
func userConflict(column string) qb.Conflict {
	return qb.Conflict{
		Target:   []string{"user_id"},
		Where:    "deleted_at IS NULL",
		Excluded: []string{column, "updated_at"},
	}
}
