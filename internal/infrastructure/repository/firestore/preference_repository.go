package firestore

import (
	"context"
	"fmt"
	"strings"

	gfs "cloud.google.com/go/firestore"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
)

type PreferenceRepository struct {
	client *gfs.Client
}

func NewPreferenceRepository(client *gfs.Client) *PreferenceRepository {
	return &PreferenceRepository{client: client}
}

func (r *PreferenceRepository) ListOptedIn(ctx context.Context, matchID string, flag preference.Flag) ([]preference.Preference, error) {
	field, ok := flagField(flag)
	if !ok {
		return nil, fmt.Errorf("unknown notification flag %q", flag)
	}
	query := r.client.Collection(notificationSettingsCollection).
		Where("matchId", "==", strings.TrimSpace(matchID)).
		Where(field, "==", true)
	return r.list(ctx, "list opted-in notification settings", query)
}

func (r *PreferenceRepository) ListByMatch(ctx context.Context, matchID string) ([]preference.Preference, error) {
	query := r.client.Collection(notificationSettingsCollection).
		Where("matchId", "==", strings.TrimSpace(matchID))
	return r.list(ctx, "list notification settings by match", query)
}

func (r *PreferenceRepository) GetByMatchAndUser(ctx context.Context, matchID, userID string) (preference.Preference, bool, error) {
	query := r.client.Collection(notificationSettingsCollection).
		Where("matchId", "==", strings.TrimSpace(matchID)).
		Where("userId", "==", strings.TrimSpace(userID)).
		Limit(1)
	items, err := r.list(ctx, "get notification setting", query)
	if err != nil {
		return preference.Preference{}, false, err
	}
	if len(items) == 0 {
		return preference.Preference{}, false, nil
	}
	return items[0], true, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	preferenceID := strings.TrimSpace(item.ID)
	if preferenceID == "" {
		return fmt.Errorf("upsert notification setting: id is required")
	}
	doc := notificationSettingDoc{
		MatchID:       strings.TrimSpace(item.MatchID),
		UserID:        strings.TrimSpace(item.UserID),
		NotifyKickoff: item.NotifyKickoff,
		NotifyResult:  item.NotifyResult,
	}
	if _, err := r.client.Collection(notificationSettingsCollection).Doc(preferenceID).Set(ctx, doc); err != nil {
		return fmt.Errorf("upsert notification setting %s: %w", preferenceID, err)
	}
	return nil
}

func (r *PreferenceRepository) list(ctx context.Context, op string, query gfs.Query) ([]preference.Preference, error) {
	out := make([]preference.Preference, 0)
	err := getAll(ctx, query, func(id string, doc notificationSettingDoc) error {
		out = append(out, preferenceFromDoc(id, doc))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
