package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// ScheduleSource fetches fixtures kicking off in [from, to] from an external provider.
type ScheduleSource interface {
	FetchFixtures(ctx context.Context, from, to time.Time) ([]ExternalFixture, error)
}

type ExternalFixture struct {
	ExternalID         int64
	League             string
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	HomeTeamName       string
	AwayTeamName       string
	HomeTeamLogo       string
	AwayTeamLogo       string
	KickoffAt          time.Time
	Venue              string
	Broadcast          string
	Status             string
	HomeScore          *int
	AwayScore          *int
}

type ScheduleIngestionConfig struct {
	Enabled   bool
	Lookback  time.Duration
	Lookahead time.Duration
}

type ScheduleIngestionResult struct {
	Enabled         bool      `json:"enabled"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Fetched         int       `json:"fetched"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	Unchanged       int       `json:"unchanged"`
	StatusChanges   int       `json:"statusChanges"`
	PublishFailures int       `json:"publishFailures"`
}

// ScheduleIngestionService upserts provider fixtures into the match store.
type ScheduleIngestionService struct {
	source    ScheduleSource
	matchRepo match.Repository
	userRepo  user.Repository
	publisher ChangePublisher
	cfg       ScheduleIngestionConfig
	logger    *logging.Logger
}

func NewScheduleIngestionService(
	source ScheduleSource,
	matchRepo match.Repository,
	userRepo user.Repository,
	publisher ChangePublisher,
	cfg ScheduleIngestionConfig,
	logger *logging.Logger,
) *ScheduleIngestionService {
	if cfg.Lookback < 0 {
		cfg.Lookback = 0
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 14 * 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleIngestionService{
		source:    source,
		matchRepo: matchRepo,
		userRepo:  userRepo,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *ScheduleIngestionService) Run(ctx context.Context, now time.Time) (ScheduleIngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleIngestionService.Run")
	defer span.End()

	from := now.Add(-s.cfg.Lookback).UTC()
	to := now.Add(s.cfg.Lookahead).UTC()
	result := ScheduleIngestionResult{Enabled: s.cfg.Enabled && s.source != nil, From: from, To: to}
	if !result.Enabled {
		s.logger.InfoContext(ctx, "schedule provider disabled, skipping daily schedule update")
		return result, nil
	}

	fixtures, err := s.source.FetchFixtures(ctx, from, to)
	if err != nil {
		return ScheduleIngestionResult{}, fmt.Errorf("%w: fetch fixtures: %v", ErrDependencyUnavailable, err)
	}
	result.Fetched = len(fixtures)

	items := mapExternalFixtures(fixtures, now.UTC())
	followers := followerCache{repo: s.userRepo, known: make(map[string]bool)}
	for _, item := range items {
		existing, exists, err := s.matchRepo.GetByID(ctx, item.ID)
		if err != nil {
			return ScheduleIngestionResult{}, fmt.Errorf("get match=%s: %w", item.ID, err)
		}

		if exists {
			item.FollowedBoost = existing.FollowedBoost
			if sameMatch(existing, item) {
				result.Unchanged++
				continue
			}
		} else {
			boosted, err := s.anyTeamFollowed(ctx, followers, item)
			if err != nil {
				return ScheduleIngestionResult{}, err
			}
			item.FollowedBoost = boosted
		}

		if err := s.matchRepo.Upsert(ctx, item); err != nil {
			return ScheduleIngestionResult{}, fmt.Errorf("upsert match=%s: %w", item.ID, err)
		}
		if !exists {
			result.Created++
			continue
		}
		result.Updated++

		if existing.Status == item.Status || s.publisher == nil {
			continue
		}
		result.StatusChanges++
		if err := s.publisher.PublishMatchChange(ctx, MatchChange{Before: existing, After: item}); err != nil {
			result.PublishFailures++
			s.logger.WarnContext(ctx, "publish match status change failed",
				"match_id", item.ID,
				"from_status", existing.Status,
				"to_status", item.Status,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "daily schedule update completed",
		"fetched", result.Fetched,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"status_changes", result.StatusChanges,
	)
	return result, nil
}

func (s *ScheduleIngestionService) anyTeamFollowed(ctx context.Context, followers followerCache, item match.Match) (bool, error) {
	for _, teamID := range []string{item.HomeTeamID, item.AwayTeamID} {
		if teamID == "" {
			continue
		}
		followed, err := followers.exists(ctx, teamID)
		if err != nil {
			return false, err
		}
		if followed {
			return true, nil
		}
	}
	return false, nil
}

func mapExternalFixtures(items []ExternalFixture, now time.Time) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 || item.KickoffAt.IsZero() {
			continue
		}
		out = append(out, match.Match{
			ID:           buildMatchID(item.ExternalID),
			League:       strings.TrimSpace(item.League),
			HomeTeamID:   buildTeamID(item.HomeTeamExternalID, item.HomeTeamName),
			HomeTeamName: strings.TrimSpace(item.HomeTeamName),
			HomeTeamLogo: strings.TrimSpace(item.HomeTeamLogo),
			AwayTeamID:   buildTeamID(item.AwayTeamExternalID, item.AwayTeamName),
			AwayTeamName: strings.TrimSpace(item.AwayTeamName),
			AwayTeamLogo: strings.TrimSpace(item.AwayTeamLogo),
			KickoffAt:    item.KickoffAt.UTC(),
			Stadium:      strings.TrimSpace(item.Venue),
			Broadcast:    strings.TrimSpace(item.Broadcast),
			Status:       match.NormalizeStatus(item.Status),
			HomeScore:    cloneIntPtr(item.HomeScore),
			AwayScore:    cloneIntPtr(item.AwayScore),
			ExternalID:   item.ExternalID,
			UpdatedAt:    now,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func buildMatchID(externalID int64) string {
	return "sm-" + strconv.FormatInt(externalID, 10)
}

func buildTeamID(externalID int64, name string) string {
	if externalID > 0 {
		return "sm-team-" + strconv.FormatInt(externalID, 10)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return sanitizeDedupSegment(strings.ToLower(name))
}

// sameMatch compares everything the provider controls.
func sameMatch(left, right match.Match) bool {
	return left.League == right.League &&
		left.HomeTeamID == right.HomeTeamID &&
		left.HomeTeamName == right.HomeTeamName &&
		left.HomeTeamLogo == right.HomeTeamLogo &&
		left.AwayTeamID == right.AwayTeamID &&
		left.AwayTeamName == right.AwayTeamName &&
		left.AwayTeamLogo == right.AwayTeamLogo &&
		left.KickoffAt.Equal(right.KickoffAt) &&
		left.Stadium == right.Stadium &&
		left.Broadcast == right.Broadcast &&
		left.Status == right.Status &&
		equalIntPtr(left.HomeScore, right.HomeScore) &&
		equalIntPtr(left.AwayScore, right.AwayScore)
}

func equalIntPtr(left, right *int) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return *left == *right
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
