package httpapi

import (
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

type registerDeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type favoriteTeamsRequest struct {
	TeamIDs []string `json:"teamIds" validate:"max=50,dive,required"`
}

type matchNotificationsRequest struct {
	NotifyKickoff *bool `json:"notifyKickoff" validate:"required"`
	NotifyResult  *bool `json:"notifyResult" validate:"required"`
}

type internalJobRequest struct {
	At         *time.Time `json:"at"`
	DispatchID string     `json:"dispatchId" validate:"omitempty,max=200"`
}

type matchUpdatedRequest struct {
	Before *usecase.MatchSnapshot `json:"before"`
	After  *usecase.MatchSnapshot `json:"after" validate:"required"`
}

type userUpdatedRequest struct {
	UserID   string   `json:"userId" validate:"required"`
	Previous []string `json:"previous"`
	Next     []string `json:"next"`
}

type preferenceDTO struct {
	ID            string `json:"id"`
	MatchID       string `json:"matchId"`
	UserID        string `json:"userId"`
	NotifyKickoff bool   `json:"notifyKickoff"`
	NotifyResult  bool   `json:"notifyResult"`
}

func preferenceToDTO(item preference.Preference) preferenceDTO {
	return preferenceDTO{
		ID:            item.ID,
		MatchID:       item.MatchID,
		UserID:        item.UserID,
		NotifyKickoff: item.NotifyKickoff,
		NotifyResult:  item.NotifyResult,
	}
}
