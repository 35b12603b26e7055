package app

import (
	"context"
	"strings"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

// localTokenPrefix marks bearer tokens accepted without Firebase in dev, e.g. "local:u1".
const localTokenPrefix = "local:"

// logSender stands in for FCM when no Firebase project is configured.
type logSender struct {
	logger *logging.Logger
}

func (s *logSender) Send(ctx context.Context, token string, notification usecase.Notification) error {
	if strings.TrimSpace(token) == "" {
		return &usecase.DeliveryError{Reason: usecase.DeliveryReasonInvalidArgument}
	}
	s.logger.InfoContext(ctx, "push suppressed",
		"device_token", token,
		"title", notification.Title,
		"body", notification.Body,
	)
	return nil
}

// localVerifier resolves "local:<uid>" tokens. Anything else is rejected.
type localVerifier struct{}

func (localVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	userID, ok := strings.CutPrefix(token, localTokenPrefix)
	userID = strings.TrimSpace(userID)
	if !ok || userID == "" {
		return user.Principal{}, usecase.ErrUnauthorized
	}
	return user.Principal{UserID: userID}, nil
}
