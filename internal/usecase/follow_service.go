package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

const maxFavoriteTeams = 50

type FavoriteTeamsResult struct {
	TeamIDs []string `json:"teamIds"`
	Synced  bool     `json:"synced"`
}

// FollowService writes a user's favorite teams and publishes the delta.
type FollowService struct {
	userRepo  user.Repository
	publisher ChangePublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewFollowService(userRepo user.Repository, publisher ChangePublisher, logger *logging.Logger) *FollowService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FollowService{
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SetFavoriteTeams replaces the caller's favorite teams. A failed publish is logged
// and reported through Synced; the write itself is kept.
func (s *FollowService) SetFavoriteTeams(ctx context.Context, userID string, teamIDs []string) (FavoriteTeamsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FollowService.SetFavoriteTeams")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return FavoriteTeamsResult{}, fmt.Errorf("%w: user must be authenticated", ErrUnauthorized)
	}
	next := user.NormalizeTeamIDs(teamIDs)
	if len(next) > maxFavoriteTeams {
		return FavoriteTeamsResult{}, fmt.Errorf("%w: at most %d favorite teams are allowed", ErrInvalidInput, maxFavoriteTeams)
	}

	current, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return FavoriteTeamsResult{}, fmt.Errorf("get user=%s: %w", userID, err)
	}
	previous := []string{}
	if exists {
		previous = user.NormalizeTeamIDs(current.FavoriteTeamIDs)
	}

	if err := s.userRepo.SetFavoriteTeams(ctx, userID, next, s.now().UTC()); err != nil {
		return FavoriteTeamsResult{}, fmt.Errorf("set favorite teams user=%s: %w", userID, err)
	}

	result := FavoriteTeamsResult{TeamIDs: next, Synced: true}
	if s.publisher == nil {
		return result, nil
	}
	if err := s.publisher.PublishUserChange(ctx, UserChange{UserID: userID, Previous: previous, Next: next}); err != nil {
		result.Synced = false
		s.logger.ErrorContext(ctx, "publish favorite teams change failed", "user_id", userID, "error", err)
	}
	return result, nil
}
