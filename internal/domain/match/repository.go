package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// ListByKickoffRange returns matches with from <= kickoff < to and the given status.
	ListByKickoffRange(ctx context.Context, from, to time.Time, status string) ([]Match, error)
	// ListKickoffBefore returns matches with kickoff strictly before the instant.
	ListKickoffBefore(ctx context.Context, before time.Time) ([]Match, error)
	ListByTeam(ctx context.Context, side Side, teamID string) ([]Match, error)
	Upsert(ctx context.Context, item Match) error
}
