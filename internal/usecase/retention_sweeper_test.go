package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
)

func TestRetentionSweeper_DeletesPreferencesOfOldMatchesOnly(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	cutoff := testNow.Add(-DefaultRetentionWindow)
	repos.store.PutMatches(
		match.Match{ID: "old", KickoffAt: cutoff.Add(-time.Second), Status: match.StatusFinished},
		match.Match{ID: "at-cutoff", KickoffAt: cutoff, Status: match.StatusFinished},
		match.Match{ID: "recent", KickoffAt: testNow.Add(-time.Hour), Status: match.StatusFinished},
	)
	repos.store.PutPreferences(
		preference.Preference{ID: "p1", MatchID: "old", UserID: "u1", NotifyKickoff: true},
		preference.Preference{ID: "p2", MatchID: "old", UserID: "u2", NotifyResult: true},
		preference.Preference{ID: "p3", MatchID: "at-cutoff", UserID: "u1", NotifyKickoff: true},
		preference.Preference{ID: "p4", MatchID: "recent", UserID: "u1", NotifyKickoff: true},
	)

	sweeper := NewRetentionSweeper(repos.matches, repos.preferences, repos.batches, 0, nil)
	result, err := sweeper.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run sweeper: %v", err)
	}
	if result.MatchCount != 1 || result.DeletedCount != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.Cutoff.Equal(cutoff) {
		t.Fatalf("unexpected cutoff: got=%s want=%s", result.Cutoff, cutoff)
	}

	left, err := repos.preferences.ListByMatch(context.Background(), "old")
	if err != nil {
		t.Fatalf("list old preferences: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected old preferences deleted, got=%d", len(left))
	}
	for _, matchID := range []string{"at-cutoff", "recent"} {
		kept, err := repos.preferences.ListByMatch(context.Background(), matchID)
		if err != nil {
			t.Fatalf("list preferences %s: %v", matchID, err)
		}
		if len(kept) != 1 {
			t.Fatalf("unexpected preferences for %s: got=%d want=1", matchID, len(kept))
		}
	}
	if _, ok, _ := repos.matches.GetByID(context.Background(), "old"); !ok {
		t.Fatalf("expected old match record to be kept")
	}
}

func TestRetentionSweeper_SecondRunDeletesNothing(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(match.Match{ID: "old", KickoffAt: testNow.Add(-30 * 24 * time.Hour)})
	repos.store.PutPreferences(preference.Preference{ID: "p1", MatchID: "old", UserID: "u1", NotifyKickoff: true})

	sweeper := NewRetentionSweeper(repos.matches, repos.preferences, repos.batches, 0, nil)
	if _, err := sweeper.Run(context.Background(), testNow); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := sweeper.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.DeletedCount != 0 {
		t.Fatalf("unexpected deleted count: got=%d want=0", second.DeletedCount)
	}
	if repos.batches.commitCount() != 1 {
		t.Fatalf("unexpected commit count: got=%d want=1", repos.batches.commitCount())
	}
}

func TestRetentionSweeper_NoOldMatches(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutMatches(match.Match{ID: "recent", KickoffAt: testNow})

	sweeper := NewRetentionSweeper(repos.matches, repos.preferences, repos.batches, 24*time.Hour, nil)
	result, err := sweeper.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run sweeper: %v", err)
	}
	if result.MatchCount != 0 || repos.batches.commitCount() != 0 {
		t.Fatalf("unexpected result: %+v commits=%d", result, repos.batches.commitCount())
	}
}
