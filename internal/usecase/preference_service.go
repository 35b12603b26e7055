package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/platform/id"
)

type MatchNotificationInput struct {
	MatchID       string
	NotifyKickoff bool
	NotifyResult  bool
}

type PreferenceService struct {
	matchRepo      match.Repository
	preferenceRepo preference.Repository
}

func NewPreferenceService(matchRepo match.Repository, preferenceRepo preference.Repository) *PreferenceService {
	return &PreferenceService{matchRepo: matchRepo, preferenceRepo: preferenceRepo}
}

func (s *PreferenceService) SetMatchNotifications(ctx context.Context, userID string, input MatchNotificationInput) (preference.Preference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.SetMatchNotifications")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return preference.Preference{}, fmt.Errorf("%w: user must be authenticated", ErrUnauthorized)
	}
	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		return preference.Preference{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, exists, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return preference.Preference{}, fmt.Errorf("get match=%s: %w", matchID, err)
	} else if !exists {
		return preference.Preference{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	existing, exists, err := s.preferenceRepo.GetByMatchAndUser(ctx, matchID, userID)
	if err != nil {
		return preference.Preference{}, fmt.Errorf("get preference match=%s user=%s: %w", matchID, userID, err)
	}
	item := preference.Preference{
		ID:            id.Deterministic("notification_settings", matchID, userID),
		MatchID:       matchID,
		UserID:        userID,
		NotifyKickoff: input.NotifyKickoff,
		NotifyResult:  input.NotifyResult,
	}
	if exists && existing.ID != "" {
		item.ID = existing.ID
	}

	if err := s.preferenceRepo.Upsert(ctx, item); err != nil {
		return preference.Preference{}, fmt.Errorf("upsert preference match=%s user=%s: %w", matchID, userID, err)
	}
	return item, nil
}
