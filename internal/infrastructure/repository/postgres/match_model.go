package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	League        string        `db:"league"`
	HomeTeamID    string        `db:"home_team_id"`
	HomeTeamName  string        `db:"home_team_name"`
	HomeTeamLogo  string        `db:"home_team_logo"`
	AwayTeamID    string        `db:"away_team_id"`
	AwayTeamName  string        `db:"away_team_name"`
	AwayTeamLogo  string        `db:"away_team_logo"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Stadium       string        `db:"stadium"`
	Broadcast     string        `db:"broadcast"`
	Status        string        `db:"status"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	FollowedBoost bool          `db:"followed_boost"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID      string        `db:"public_id"`
	League        string        `db:"league"`
	HomeTeamID    string        `db:"home_team_id"`
	HomeTeamName  string        `db:"home_team_name"`
	HomeTeamLogo  string        `db:"home_team_logo"`
	AwayTeamID    string        `db:"away_team_id"`
	AwayTeamName  string        `db:"away_team_name"`
	AwayTeamLogo  string        `db:"away_team_logo"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Stadium       string        `db:"stadium"`
	Broadcast     string        `db:"broadcast"`
	Status        string        `db:"status"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	FollowedBoost bool          `db:"followed_boost"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type preferenceTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	MatchID       string     `db:"match_public_id"`
	UserID        string     `db:"user_id"`
	NotifyKickoff bool       `db:"notify_kickoff"`
	NotifyResult  bool       `db:"notify_result"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type preferenceInsertModel struct {
	PublicID      string `db:"public_id"`
	MatchID       string `db:"match_public_id"`
	UserID        string `db:"user_id"`
	NotifyKickoff bool   `db:"notify_kickoff"`
	NotifyResult  bool   `db:"notify_result"`
}
