package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"

	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

type UserRepository struct {
	client *gfs.Client
}

func NewUserRepository(client *gfs.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, false, nil
	}

	snap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user %s: %w", userID, err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return user.User{}, false, fmt.Errorf("decode user %s: %w", userID, err)
	}
	return userFromDoc(snap.Ref.ID, doc), true, nil
}

func (r *UserRepository) ExistsFollower(ctx context.Context, teamID string) (bool, error) {
	query := r.client.Collection(usersCollection).
		Where("favoriteTeamIds", "array-contains", strings.TrimSpace(teamID)).
		Limit(1)

	found := false
	err := getAll(ctx, query, func(string, userDoc) error {
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("exists follower team=%s: %w", teamID, err)
	}
	return found, nil
}

// SetDeviceToken merges so the user's favorite teams are kept.
func (r *UserRepository) SetDeviceToken(ctx context.Context, userID, token string, updatedAt time.Time) error {
	userID = strings.TrimSpace(userID)
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]any{
		"fcmToken":  strings.TrimSpace(token),
		"updatedAt": updatedAt.UTC(),
	}, gfs.MergeAll)
	if err != nil {
		return fmt.Errorf("set device token user=%s: %w", userID, err)
	}
	return nil
}

func (r *UserRepository) SetFavoriteTeams(ctx context.Context, userID string, teamIDs []string, updatedAt time.Time) error {
	userID = strings.TrimSpace(userID)
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, map[string]any{
		"favoriteTeamIds": user.NormalizeTeamIDs(teamIDs),
		"updatedAt":       updatedAt.UTC(),
	}, gfs.MergeAll)
	if err != nil {
		return fmt.Errorf("set favorite teams user=%s: %w", userID, err)
	}
	return nil
}

type AttendanceRepository struct {
	client *gfs.Client
}

func NewAttendanceRepository(client *gfs.Client) *AttendanceRepository {
	return &AttendanceRepository{client: client}
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	query := r.client.Collection(attendanceRecordsCollection).Where("userId", "==", strings.TrimSpace(userID))

	out := make([]attendance.Record, 0)
	err := getAll(ctx, query, func(id string, doc attendanceRecordDoc) error {
		out = append(out, recordFromDoc(id, doc))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance records user=%s: %w", userID, err)
	}
	return out, nil
}
