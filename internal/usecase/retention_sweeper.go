package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

const DefaultRetentionWindow = 7 * 24 * time.Hour

type RetentionRunResult struct {
	Cutoff       time.Time `json:"cutoff"`
	MatchCount   int       `json:"matchCount"`
	DeletedCount int       `json:"deletedCount"`
}

// RetentionSweeper deletes notification preferences of matches that kicked off
// more than the retention window ago. Match records themselves are kept.
type RetentionSweeper struct {
	matchRepo      match.Repository
	preferenceRepo preference.Repository
	batches        writebatch.Factory
	window         time.Duration
	logger         *logging.Logger
}

func NewRetentionSweeper(
	matchRepo match.Repository,
	preferenceRepo preference.Repository,
	batches writebatch.Factory,
	window time.Duration,
	logger *logging.Logger,
) *RetentionSweeper {
	if window <= 0 {
		window = DefaultRetentionWindow
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RetentionSweeper{
		matchRepo:      matchRepo,
		preferenceRepo: preferenceRepo,
		batches:        batches,
		window:         window,
		logger:         logger,
	}
}

func (s *RetentionSweeper) Run(ctx context.Context, now time.Time) (RetentionRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RetentionSweeper.Run")
	defer span.End()

	cutoff := now.Add(-s.window)
	result := RetentionRunResult{Cutoff: cutoff.UTC()}

	stale, err := s.matchRepo.ListKickoffBefore(ctx, cutoff)
	if err != nil {
		return RetentionRunResult{}, fmt.Errorf("list matches before %s: %w", cutoff.UTC().Format(time.RFC3339), err)
	}
	result.MatchCount = len(stale)
	if len(stale) == 0 {
		s.logger.InfoContext(ctx, "no old matches to clean up", "cutoff", cutoff)
		return result, nil
	}

	batch := s.batches.NewBatch()
	for _, item := range stale {
		prefs, err := s.preferenceRepo.ListByMatch(ctx, item.ID)
		if err != nil {
			return RetentionRunResult{}, fmt.Errorf("list preferences match=%s: %w", item.ID, err)
		}
		for _, pref := range prefs {
			batch.DeletePreference(pref.ID)
		}
	}

	result.DeletedCount = batch.Size()
	if result.DeletedCount == 0 {
		return result, nil
	}
	if err := batch.Commit(ctx); err != nil {
		return RetentionRunResult{}, fmt.Errorf("commit retention batch: %w", err)
	}

	s.logger.InfoContext(ctx, "old notification preferences cleaned up",
		"cutoff", cutoff,
		"matches", result.MatchCount,
		"deleted", result.DeletedCount,
	)
	return result, nil
}
