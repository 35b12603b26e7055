package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

type RegisterTokenResult struct {
	Success bool `json:"success"`
}

type DeviceTokenService struct {
	userRepo user.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewDeviceTokenService(userRepo user.Repository, logger *logging.Logger) *DeviceTokenService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DeviceTokenService{userRepo: userRepo, logger: logger, now: time.Now}
}

func (s *DeviceTokenService) RegisterToken(ctx context.Context, userID, token string) (RegisterTokenResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DeviceTokenService.RegisterToken")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return RegisterTokenResult{}, fmt.Errorf("%w: user must be authenticated", ErrUnauthorized)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return RegisterTokenResult{}, fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}

	if err := s.userRepo.SetDeviceToken(ctx, userID, token, s.now().UTC()); err != nil {
		return RegisterTokenResult{}, fmt.Errorf("set device token user=%s: %w", userID, err)
	}

	s.logger.InfoContext(ctx, "device token registered", "user_id", userID)
	return RegisterTokenResult{Success: true}, nil
}
