package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	matchmock "github.com/riskibarqy/matchday-alerts/internal/mocks/domain/match"
)

func newKickoffNotifier(repos testRepos, sender PushSender, policy KickoffPolicy) *KickoffNotifier {
	resolver := NewRecipientResolver(repos.preferences, repos.users, 4)
	return NewKickoffNotifier(repos.matches, resolver, NewFanout(sender, 4, nil), policy, nil)
}

func TestKickoffPolicy_Window(t *testing.T) {
	t.Parallel()

	from, to := DefaultKickoffPolicy().Window(testNow)
	if !from.Equal(testNow.Add(30 * time.Minute)) {
		t.Fatalf("unexpected window start: got=%s", from)
	}
	if !to.Equal(testNow.Add(35 * time.Minute)) {
		t.Fatalf("unexpected window end: got=%s", to)
	}
}

func TestKickoffNotifier_NotifiesMatchesInsideWindowOnly(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(
		match.Match{ID: "at-start", HomeTeamName: "Ulsan HD", AwayTeamName: "FC Seoul", KickoffAt: testNow.Add(30 * time.Minute), Status: match.StatusScheduled},
		match.Match{ID: "at-end", HomeTeamName: "A", AwayTeamName: "B", KickoffAt: testNow.Add(35 * time.Minute), Status: match.StatusScheduled},
		match.Match{ID: "before", HomeTeamName: "C", AwayTeamName: "D", KickoffAt: testNow.Add(29*time.Minute + 59*time.Second), Status: match.StatusScheduled},
		match.Match{ID: "live", HomeTeamName: "E", AwayTeamName: "F", KickoffAt: testNow.Add(31 * time.Minute), Status: match.StatusLive},
	)
	for _, matchID := range []string{"at-start", "at-end", "before", "live"} {
		repos.store.PutPreferences(preference.Preference{ID: "p-" + matchID, MatchID: matchID, UserID: "u1", NotifyKickoff: true})
	}
	repos.store.PutUsers(user.User{ID: "u1", DeviceToken: "tok-1"})

	sender := newRecordingSender()
	result, err := newKickoffNotifier(repos, sender, DefaultKickoffPolicy()).Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run kickoff notifier: %v", err)
	}

	if result.MatchCount != 1 || len(result.Matches) != 1 || result.Matches[0].MatchID != "at-start" {
		t.Fatalf("unexpected matches: %+v", result)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("unexpected send count: got=%d want=1", len(sender.sent))
	}

	got := sender.sent[0].Notification
	if got.Title != "Match Starting Soon!" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if got.Body != "Ulsan HD vs FC Seoul kicks off in 30 minutes" {
		t.Fatalf("unexpected body: %q", got.Body)
	}
	if got.Data["type"] != "kickoff" || got.Data["matchId"] != "at-start" {
		t.Fatalf("unexpected data: %+v", got.Data)
	}
	if got.Hints.AndroidPriority != "high" || got.Hints.AndroidChannelID != "match_notifications" {
		t.Fatalf("unexpected android hints: %+v", got.Hints)
	}
	if got.Hints.APNSSound != "default" || got.Hints.APNSBadge == nil || *got.Hints.APNSBadge != 1 {
		t.Fatalf("unexpected apns hints: %+v", got.Hints)
	}
}

func TestKickoffNotifier_BodyFollowsLeadTime(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(match.Match{ID: "m1", HomeTeamName: "A", AwayTeamName: "B", KickoffAt: testNow.Add(45 * time.Minute), Status: match.StatusScheduled})
	repos.store.PutPreferences(preference.Preference{ID: "p1", MatchID: "m1", UserID: "u1", NotifyKickoff: true})
	repos.store.PutUsers(user.User{ID: "u1", DeviceToken: "tok-1"})

	sender := newRecordingSender()
	policy := KickoffPolicy{LeadTime: 45 * time.Minute, Cadence: 10 * time.Minute}
	if _, err := newKickoffNotifier(repos, sender, policy).Run(context.Background(), testNow); err != nil {
		t.Fatalf("run kickoff notifier: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].Notification.Body != "A vs B kicks off in 45 minutes" {
		t.Fatalf("unexpected sends: %+v", sender.sent)
	}
}

func TestKickoffNotifier_FailedTokenDoesNotAbortOthers(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(match.Match{ID: "m1", KickoffAt: testNow.Add(32 * time.Minute), Status: match.StatusScheduled})
	repos.store.PutPreferences(
		preference.Preference{ID: "p1", MatchID: "m1", UserID: "u1", NotifyKickoff: true},
		preference.Preference{ID: "p2", MatchID: "m1", UserID: "u2", NotifyKickoff: true},
		preference.Preference{ID: "p3", MatchID: "m1", UserID: "u3", NotifyKickoff: true},
	)
	repos.store.PutUsers(
		user.User{ID: "u1", DeviceToken: "tok-1"},
		user.User{ID: "u2", DeviceToken: "tok-bad"},
		user.User{ID: "u3", DeviceToken: "tok-3"},
	)

	sender := newRecordingSender()
	sender.failures["tok-bad"] = &DeliveryError{Reason: DeliveryReasonInvalidArgument}

	result, err := newKickoffNotifier(repos, sender, DefaultKickoffPolicy()).Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run kickoff notifier: %v", err)
	}
	if result.Attempted != 3 || result.Delivered != 2 || result.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	tokens := sender.tokens()
	if len(tokens) != 2 || tokens[0] != "tok-1" || tokens[1] != "tok-3" {
		t.Fatalf("unexpected delivered tokens: %+v", tokens)
	}
}

func TestKickoffNotifier_TotalsSumAcrossMatches(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(
		match.Match{ID: "m1", KickoffAt: testNow.Add(31 * time.Minute), Status: match.StatusScheduled},
		match.Match{ID: "m2", KickoffAt: testNow.Add(33 * time.Minute), Status: match.StatusScheduled},
	)
	repos.store.PutPreferences(
		preference.Preference{ID: "p1", MatchID: "m1", UserID: "u1", NotifyKickoff: true},
		preference.Preference{ID: "p2", MatchID: "m2", UserID: "u2", NotifyKickoff: true},
		preference.Preference{ID: "p3", MatchID: "m2", UserID: "u3", NotifyKickoff: true},
	)
	repos.store.PutUsers(
		user.User{ID: "u1", DeviceToken: "tok-1"},
		user.User{ID: "u2", DeviceToken: "tok-bad"},
		user.User{ID: "u3", DeviceToken: "tok-3"},
	)

	sender := newRecordingSender()
	sender.failures["tok-bad"] = &DeliveryError{Reason: DeliveryReasonInvalidArgument}

	result, err := newKickoffNotifier(repos, sender, DefaultKickoffPolicy()).Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run kickoff notifier: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("unexpected match deliveries: got=%d want=%d", len(result.Matches), 2)
	}
	if result.Attempted != 3 || result.Delivered != 2 || result.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", result.DeliveryTotals)
	}
}

func TestKickoffNotifier_NoMatchesIsValid(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	sender := newRecordingSender()
	result, err := newKickoffNotifier(repos, sender, DefaultKickoffPolicy()).Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run kickoff notifier: %v", err)
	}
	if result.MatchCount != 0 || len(sender.sent) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestKickoffNotifier_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	storeErr := errors.New("schedules unavailable")
	matchRepo.
		On("ListByKickoffRange", mock.Anything, testNow.Add(30*time.Minute), testNow.Add(35*time.Minute), match.StatusScheduled).
		Return(nil, storeErr).
		Once()

	repos := newTestRepos()
	notifier := NewKickoffNotifier(matchRepo, NewRecipientResolver(repos.preferences, repos.users, 1), NewFanout(newRecordingSender(), 1, nil), DefaultKickoffPolicy(), nil)

	if _, err := notifier.Run(context.Background(), testNow); !errors.Is(err, storeErr) {
		t.Fatalf("unexpected error: got=%v want=%v", err, storeErr)
	}
}
