package user

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	// ExistsFollower reports whether at least one user has teamID in its favorite teams.
	ExistsFollower(ctx context.Context, teamID string) (bool, error)
	// SetDeviceToken creates the user when missing and keeps its other fields otherwise.
	SetDeviceToken(ctx context.Context, userID, token string, updatedAt time.Time) error
	SetFavoriteTeams(ctx context.Context, userID string, teamIDs []string, updatedAt time.Time) error
}
