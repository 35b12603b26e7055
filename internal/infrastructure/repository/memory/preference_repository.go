package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
)

type PreferenceRepository struct {
	store *Store
}

func NewPreferenceRepository(store *Store) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

func (r *PreferenceRepository) ListOptedIn(_ context.Context, matchID string, flag preference.Flag) ([]preference.Preference, error) {
	return r.filter(func(item preference.Preference) bool {
		return item.MatchID == matchID && item.Enabled(flag)
	}), nil
}

func (r *PreferenceRepository) ListByMatch(_ context.Context, matchID string) ([]preference.Preference, error) {
	return r.filter(func(item preference.Preference) bool {
		return item.MatchID == matchID
	}), nil
}

func (r *PreferenceRepository) GetByMatchAndUser(_ context.Context, matchID, userID string) (preference.Preference, bool, error) {
	items := r.filter(func(item preference.Preference) bool {
		return item.MatchID == matchID && item.UserID == userID
	})
	if len(items) == 0 {
		return preference.Preference{}, false, nil
	}
	return items[0], true, nil
}

func (r *PreferenceRepository) Upsert(_ context.Context, item preference.Preference) error {
	r.store.PutPreferences(item)
	return nil
}

func (r *PreferenceRepository) filter(keep func(preference.Preference) bool) []preference.Preference {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]preference.Preference, 0)
	for _, item := range r.store.preferences {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
