package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/platform/id"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

const (
	MatchUpdatedPath = "/v1/internal/triggers/match-updated"
	UserUpdatedPath  = "/v1/internal/triggers/user-updated"
)

// MatchChange is one write to a match record. A zero Before means the match was created.
type MatchChange struct {
	Before match.Match
	After  match.Match
}

// UserChange is one write to a user's favorite teams.
type UserChange = FollowChange

// ChangePublisher hands record changes to the reacting components.
type ChangePublisher interface {
	PublishMatchChange(ctx context.Context, change MatchChange) error
	PublishUserChange(ctx context.Context, change UserChange) error
}

// JobQueue delivers a payload to an internal path, optionally delayed and deduplicated.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// DirectChangePublisher runs the reactions in-process on the caller's goroutine.
type DirectChangePublisher struct {
	resultNotifier *ResultNotifier
	followSync     *FollowSyncEngine
	logger         *logging.Logger
}

func NewDirectChangePublisher(resultNotifier *ResultNotifier, followSync *FollowSyncEngine, logger *logging.Logger) *DirectChangePublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &DirectChangePublisher{
		resultNotifier: resultNotifier,
		followSync:     followSync,
		logger:         logger,
	}
}

func (p *DirectChangePublisher) PublishMatchChange(ctx context.Context, change MatchChange) error {
	if p.resultNotifier == nil {
		return nil
	}
	_, err := p.resultNotifier.HandleMatchUpdate(ctx, change.Before, change.After)
	return err
}

func (p *DirectChangePublisher) PublishUserChange(ctx context.Context, change UserChange) error {
	if p.followSync == nil {
		return nil
	}
	_, err := p.followSync.Sync(ctx, change)
	return err
}

// MatchSnapshot is the wire form of a match inside queued change messages.
type MatchSnapshot struct {
	ID            string    `json:"id" validate:"required"`
	League        string    `json:"league"`
	HomeTeamID    string    `json:"homeTeamId"`
	HomeTeamName  string    `json:"homeTeamName"`
	HomeTeamLogo  string    `json:"homeTeamLogo,omitempty"`
	AwayTeamID    string    `json:"awayTeamId"`
	AwayTeamName  string    `json:"awayTeamName"`
	AwayTeamLogo  string    `json:"awayTeamLogo,omitempty"`
	Kickoff       time.Time `json:"kickoff"`
	Stadium       string    `json:"stadium,omitempty"`
	Broadcast     string    `json:"broadcast,omitempty"`
	Status        string    `json:"status"`
	HomeScore     *int      `json:"homeScore"`
	AwayScore     *int      `json:"awayScore"`
	FollowedBoost bool      `json:"followedBoost"`
	ExternalID    int64     `json:"externalId,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewMatchSnapshot(item match.Match) MatchSnapshot {
	return MatchSnapshot{
		ID:            item.ID,
		League:        item.League,
		HomeTeamID:    item.HomeTeamID,
		HomeTeamName:  item.HomeTeamName,
		HomeTeamLogo:  item.HomeTeamLogo,
		AwayTeamID:    item.AwayTeamID,
		AwayTeamName:  item.AwayTeamName,
		AwayTeamLogo:  item.AwayTeamLogo,
		Kickoff:       item.KickoffAt,
		Stadium:       item.Stadium,
		Broadcast:     item.Broadcast,
		Status:        item.Status,
		HomeScore:     item.HomeScore,
		AwayScore:     item.AwayScore,
		FollowedBoost: item.FollowedBoost,
		ExternalID:    item.ExternalID,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (s MatchSnapshot) Match() match.Match {
	return match.Match{
		ID:            strings.TrimSpace(s.ID),
		League:        s.League,
		HomeTeamID:    s.HomeTeamID,
		HomeTeamName:  s.HomeTeamName,
		HomeTeamLogo:  s.HomeTeamLogo,
		AwayTeamID:    s.AwayTeamID,
		AwayTeamName:  s.AwayTeamName,
		AwayTeamLogo:  s.AwayTeamLogo,
		KickoffAt:     s.Kickoff,
		Stadium:       s.Stadium,
		Broadcast:     s.Broadcast,
		Status:        match.NormalizeStatus(s.Status),
		HomeScore:     s.HomeScore,
		AwayScore:     s.AwayScore,
		FollowedBoost: s.FollowedBoost,
		ExternalID:    s.ExternalID,
		UpdatedAt:     s.UpdatedAt,
	}
}

type MatchChangeMessage struct {
	Before *MatchSnapshot `json:"before,omitempty"`
	After  MatchSnapshot  `json:"after"`
}

// QueuedChangePublisher posts changes to the internal trigger endpoints through a JobQueue.
type QueuedChangePublisher struct {
	queue  JobQueue
	logger *logging.Logger
}

func NewQueuedChangePublisher(queue JobQueue, logger *logging.Logger) *QueuedChangePublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &QueuedChangePublisher{queue: queue, logger: logger}
}

func (p *QueuedChangePublisher) PublishMatchChange(ctx context.Context, change MatchChange) error {
	message := MatchChangeMessage{After: NewMatchSnapshot(change.After)}
	if change.Before.ID != "" {
		before := NewMatchSnapshot(change.Before)
		message.Before = &before
	}

	dedupID := id.Deterministic(
		"match-updated",
		change.After.ID,
		change.Before.Status,
		change.After.Status,
		change.After.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err := p.queue.Enqueue(ctx, MatchUpdatedPath, message, 0, dedupID); err != nil {
		p.logger.WarnContext(ctx, "enqueue match change failed", "match_id", change.After.ID, "error", err)
		return err
	}
	return nil
}

func (p *QueuedChangePublisher) PublishUserChange(ctx context.Context, change UserChange) error {
	dedupID := id.Deterministic(
		"user-updated",
		change.UserID,
		strings.Join(change.Previous, ","),
		strings.Join(change.Next, ","),
	)
	if err := p.queue.Enqueue(ctx, UserUpdatedPath, change, 0, dedupID); err != nil {
		p.logger.WarnContext(ctx, "enqueue user change failed", "user_id", change.UserID, "error", err)
		return err
	}
	return nil
}
