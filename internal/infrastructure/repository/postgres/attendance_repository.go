package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	qb "github.com/riskibarqy/matchday-alerts/internal/platform/querybuilder"
)

type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	query, args, err := qb.Select("*").From("attendance_records").
		Where(
			qb.Eq("user_id", strings.TrimSpace(userID)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list attendance query: %w", err)
	}

	var rows []attendanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}

	out := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, attendance.Record{
			ID:        row.PublicID,
			UserID:    row.UserID,
			League:    row.League,
			Stadium:   row.Stadium,
			HomeScore: nullIntToPtr(row.HomeScore),
			AwayScore: nullIntToPtr(row.AwayScore),
		})
	}
	return out, nil
}
