package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

type ResultRunResult struct {
	MatchID string         `json:"matchId"`
	Fired   bool           `json:"fired"`
	Report  DeliveryReport `json:"report"`
}

// ResultNotifier reacts to a match update and notifies once on the transition into finished.
type ResultNotifier struct {
	resolver *RecipientResolver
	fanout   *Fanout
	logger   *logging.Logger
}

func NewResultNotifier(resolver *RecipientResolver, fanout *Fanout, logger *logging.Logger) *ResultNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultNotifier{resolver: resolver, fanout: fanout, logger: logger}
}

// HandleMatchUpdate takes the record before and after one write. A zero before
// means the match had no previous state.
func (n *ResultNotifier) HandleMatchUpdate(ctx context.Context, before, after match.Match) (ResultRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultNotifier.HandleMatchUpdate", attribute.String("match.id", after.ID))
	defer span.End()

	result := ResultRunResult{MatchID: after.ID, Report: DeliveryReport{Results: []DeliveryResult{}}}
	if before.IsFinished() || !after.IsFinished() {
		return result, nil
	}
	result.Fired = true

	recipients, err := n.resolver.Resolve(ctx, after.ID, preference.FlagResult)
	if err != nil {
		return ResultRunResult{}, err
	}
	if len(recipients) == 0 {
		return result, nil
	}

	report, err := n.fanout.Deliver(ctx, recipients, resultNotification(after))
	if err != nil {
		return ResultRunResult{}, fmt.Errorf("deliver result notifications match=%s: %w", after.ID, err)
	}
	result.Report = report

	n.logger.InfoContext(ctx, "result notifications sent",
		"match_id", after.ID,
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"failed", report.Failed,
	)
	return result, nil
}

func resultNotification(item match.Match) Notification {
	return Notification{
		Title: "Match Finished!",
		Body: fmt.Sprintf("%s %s - %s %s",
			item.HomeTeamName,
			formatScore(item.HomeScore),
			formatScore(item.AwayScore),
			item.AwayTeamName,
		),
		Data: map[string]string{
			"type":    "result",
			"matchId": item.ID,
		},
	}
}

func formatScore(score *int) string {
	if score == nil {
		return "?"
	}
	return strconv.Itoa(*score)
}
