package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

type BatchFactory struct {
	db *sqlx.DB
}

func NewBatchFactory(db *sqlx.DB) *BatchFactory {
	return &BatchFactory{db: db}
}

func (f *BatchFactory) NewBatch() writebatch.Batch {
	return &Batch{db: f.db}
}

// Batch applies its operations in one transaction.
type Batch struct {
	writebatch.Ops
	db *sqlx.DB
}

func (b *Batch) Commit(ctx context.Context) error {
	if b.Size() == 0 {
		return nil
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx commit batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	byValue := map[bool][]string{}
	for _, op := range b.Boosts() {
		byValue[op.Boosted] = append(byValue[op.Boosted], op.MatchID)
	}
	for _, boosted := range []bool{true, false} {
		matchIDs := byValue[boosted]
		if len(matchIDs) == 0 {
			continue
		}
		if err := updateFollowedBoost(ctx, tx, matchIDs, boosted); err != nil {
			return err
		}
	}

	if deletes := b.PreferenceDeletes(); len(deletes) > 0 {
		query, args, err := qb.DeleteFrom("notification_preferences").
			Where(qb.InStrings("public_id", deletes)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete preferences query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete preferences: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func updateFollowedBoost(ctx context.Context, tx *sqlx.Tx, matchIDs []string, boosted bool) error {
	query, args, err := qb.Update("matches").
		Set("followed_boost", boosted).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.InStrings("public_id", matchIDs),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update followed boost query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update followed boost: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update followed boost rows affected: %w", err)
	}
	if affected != int64(len(matchIDs)) {
		return fmt.Errorf("update followed boost: %d of %d matches found", affected, len(matchIDs))
	}
	return nil
}
