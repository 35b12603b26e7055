package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

const (
	DefaultKickoffLead    = 30 * time.Minute
	DefaultKickoffCadence = 5 * time.Minute

	kickoffChannelID = "match_notifications"
)

// KickoffPolicy couples the lookahead window with the invocation cadence. The
// periodic trigger runs every Cadence, so consecutive windows tile without gaps.
type KickoffPolicy struct {
	LeadTime time.Duration
	Cadence  time.Duration
}

func DefaultKickoffPolicy() KickoffPolicy {
	return KickoffPolicy{LeadTime: DefaultKickoffLead, Cadence: DefaultKickoffCadence}
}

// Window returns [now+LeadTime, now+LeadTime+Cadence).
func (p KickoffPolicy) Window(now time.Time) (time.Time, time.Time) {
	from := now.Add(p.LeadTime)
	return from, from.Add(p.Cadence)
}

type KickoffRunResult struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	MatchCount  int       `json:"matchCount"`
	DeliveryTotals
	Matches []MatchDelivery `json:"matches"`
}

type KickoffNotifier struct {
	matchRepo match.Repository
	resolver  *RecipientResolver
	fanout    *Fanout
	policy    KickoffPolicy
	logger    *logging.Logger
}

func NewKickoffNotifier(
	matchRepo match.Repository,
	resolver *RecipientResolver,
	fanout *Fanout,
	policy KickoffPolicy,
	logger *logging.Logger,
) *KickoffNotifier {
	if policy.LeadTime <= 0 {
		policy.LeadTime = DefaultKickoffLead
	}
	if policy.Cadence <= 0 {
		policy.Cadence = DefaultKickoffCadence
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &KickoffNotifier{
		matchRepo: matchRepo,
		resolver:  resolver,
		fanout:    fanout,
		policy:    policy,
		logger:    logger,
	}
}

func (n *KickoffNotifier) Run(ctx context.Context, now time.Time) (KickoffRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.KickoffNotifier.Run")
	defer span.End()

	from, to := n.policy.Window(now)
	result := KickoffRunResult{
		WindowStart: from.UTC(),
		WindowEnd:   to.UTC(),
		Matches:     []MatchDelivery{},
	}

	matches, err := n.matchRepo.ListByKickoffRange(ctx, from, to, match.StatusScheduled)
	if err != nil {
		return KickoffRunResult{}, fmt.Errorf("list matches kicking off in [%s, %s): %w", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339), err)
	}
	result.MatchCount = len(matches)
	if len(matches) == 0 {
		n.logger.InfoContext(ctx, "no upcoming matches in kickoff window", "from", from, "to", to)
		return result, nil
	}

	for _, item := range matches {
		recipients, err := n.resolver.Resolve(ctx, item.ID, preference.FlagKickoff)
		if err != nil {
			return KickoffRunResult{}, err
		}
		if len(recipients) == 0 {
			continue
		}

		report, err := n.fanout.Deliver(ctx, recipients, n.kickoffNotification(item))
		if err != nil {
			return KickoffRunResult{}, fmt.Errorf("deliver kickoff notifications match=%s: %w", item.ID, err)
		}
		result.Matches = append(result.Matches, MatchDelivery{MatchID: item.ID, Report: report})
		result.add(report.DeliveryTotals)

		n.logger.InfoContext(ctx, "kickoff notifications sent",
			"match_id", item.ID,
			"attempted", report.Attempted,
			"delivered", report.Delivered,
			"failed", report.Failed,
		)
	}

	return result, nil
}

func (n *KickoffNotifier) kickoffNotification(item match.Match) Notification {
	badge := 1
	return Notification{
		Title: "Match Starting Soon!",
		Body: fmt.Sprintf("%s vs %s kicks off in %d minutes",
			item.HomeTeamName,
			item.AwayTeamName,
			int(n.policy.LeadTime/time.Minute),
		),
		Data: map[string]string{
			"type":    "kickoff",
			"matchId": item.ID,
		},
		Hints: PlatformHints{
			AndroidPriority:  "high",
			AndroidChannelID: kickoffChannelID,
			APNSSound:        "default",
			APNSBadge:        &badge,
		},
	}
}
