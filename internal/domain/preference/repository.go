package preference

import "context"

type Repository interface {
	ListOptedIn(ctx context.Context, matchID string, flag Flag) ([]Preference, error)
	ListByMatch(ctx context.Context, matchID string) ([]Preference, error)
	GetByMatchAndUser(ctx context.Context, matchID, userID string) (Preference, bool, error)
	Upsert(ctx context.Context, item Preference) error
}
