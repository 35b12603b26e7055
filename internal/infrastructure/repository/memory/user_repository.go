package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	return cloneUser(item), true, nil
}

func (r *UserRepository) ExistsFollower(_ context.Context, teamID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.users {
		for _, followed := range item.FavoriteTeamIDs {
			if followed == teamID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *UserRepository) SetDeviceToken(_ context.Context, userID, token string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item := r.store.users[userID]
	item.ID = userID
	item.DeviceToken = token
	item.UpdatedAt = updatedAt
	r.store.users[userID] = item
	return nil
}

func (r *UserRepository) SetFavoriteTeams(_ context.Context, userID string, teamIDs []string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item := r.store.users[userID]
	item.ID = userID
	item.FavoriteTeamIDs = append([]string(nil), teamIDs...)
	item.UpdatedAt = updatedAt
	r.store.users[userID] = item
	return nil
}
