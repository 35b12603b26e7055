package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type userTableModel struct {
	ID              int64          `db:"id"`
	UserID          string         `db:"user_id"`
	FavoriteTeamIDs pq.StringArray `db:"favorite_team_ids"`
	FCMToken        sql.NullString `db:"fcm_token"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type attendanceTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	UserID    string        `db:"user_id"`
	League    string        `db:"league"`
	Stadium   string        `db:"stadium"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	CreatedAt time.Time     `db:"created_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}
