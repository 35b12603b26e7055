package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

type fakeScheduleSource struct {
	fixtures []ExternalFixture
	err      error
	from, to time.Time
}

func (s *fakeScheduleSource) FetchFixtures(_ context.Context, from, to time.Time) ([]ExternalFixture, error) {
	s.from, s.to = from, to
	return s.fixtures, s.err
}

func TestScheduleIngestionService_CreatesAndUpdatesMatches(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutUsers(user.User{ID: "u1", FavoriteTeamIDs: []string{"sm-team-10"}})
	repos.store.PutMatches(
		match.Match{ID: "sm-2", League: "K League 1", HomeTeamID: "sm-team-30", HomeTeamName: "Jeonbuk", AwayTeamID: "sm-team-40", AwayTeamName: "Pohang", KickoffAt: testNow.Add(-2 * time.Hour), Status: match.StatusLive, FollowedBoost: true},
	)

	source := &fakeScheduleSource{fixtures: []ExternalFixture{
		{ExternalID: 1, League: "K League 1", HomeTeamExternalID: 10, HomeTeamName: "Ulsan HD", AwayTeamExternalID: 20, AwayTeamName: "FC Seoul", KickoffAt: testNow.Add(24 * time.Hour), Venue: "Munsu"},
		{ExternalID: 2, League: "K League 1", HomeTeamExternalID: 30, HomeTeamName: "Jeonbuk", AwayTeamExternalID: 40, AwayTeamName: "Pohang", KickoffAt: testNow.Add(-2 * time.Hour), Status: "FT", HomeScore: intPtr(3), AwayScore: intPtr(2)},
		{ExternalID: 0, HomeTeamName: "ignored", KickoffAt: testNow},
	}}
	publisher := &recordingPublisher{}

	svc := NewScheduleIngestionService(source, repos.matches, repos.users, publisher, ScheduleIngestionConfig{
		Enabled:   true,
		Lookback:  24 * time.Hour,
		Lookahead: 7 * 24 * time.Hour,
	}, nil)

	result, err := svc.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run ingestion: %v", err)
	}
	if !source.from.Equal(testNow.Add(-24*time.Hour)) || !source.to.Equal(testNow.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected fetch range: from=%s to=%s", source.from, source.to)
	}
	if result.Fetched != 3 || result.Created != 1 || result.Updated != 1 || result.StatusChanges != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	created, ok, _ := repos.matches.GetByID(context.Background(), "sm-1")
	if !ok || !created.FollowedBoost || created.HomeTeamID != "sm-team-10" || created.Status != match.StatusScheduled {
		t.Fatalf("unexpected created match: %+v ok=%v", created, ok)
	}

	updated, _, _ := repos.matches.GetByID(context.Background(), "sm-2")
	if !updated.IsFinished() || !updated.FollowedBoost || *updated.HomeScore != 3 {
		t.Fatalf("unexpected updated match: %+v", updated)
	}

	if len(publisher.matches) != 1 {
		t.Fatalf("unexpected published changes: got=%d want=1", len(publisher.matches))
	}
	change := publisher.matches[0]
	if change.Before.Status != match.StatusLive || change.After.Status != match.StatusFinished {
		t.Fatalf("unexpected change: %+v", change)
	}
}

func TestScheduleIngestionService_UnchangedMatchIsNotRewritten(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	source := &fakeScheduleSource{fixtures: []ExternalFixture{
		{ExternalID: 5, HomeTeamExternalID: 1, HomeTeamName: "A", AwayTeamExternalID: 2, AwayTeamName: "B", KickoffAt: testNow},
	}}
	svc := NewScheduleIngestionService(source, repos.matches, repos.users, nil, ScheduleIngestionConfig{Enabled: true}, nil)

	if _, err := svc.Run(context.Background(), testNow); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background(), testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Unchanged != 1 || second.Created != 0 || second.Updated != 0 {
		t.Fatalf("unexpected second result: %+v", second)
	}

	stored, _, _ := repos.matches.GetByID(context.Background(), "sm-5")
	if !stored.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updated_at from first run, got=%s", stored.UpdatedAt)
	}
}

func TestScheduleIngestionService_SourceFailure(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	source := &fakeScheduleSource{err: errors.New("provider timeout")}
	svc := NewScheduleIngestionService(source, repos.matches, repos.users, nil, ScheduleIngestionConfig{Enabled: true}, nil)

	_, err := svc.Run(context.Background(), testNow)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrDependencyUnavailable)
	}
}

func TestBuildTeamID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		externalID int64
		name       string
		want       string
	}{
		{externalID: 42, name: "Ulsan", want: "sm-team-42"},
		{externalID: 0, name: "FC Seoul", want: "fc-seoul"},
		{externalID: 0, name: "  ", want: ""},
	}
	for _, tc := range cases {
		if got := buildTeamID(tc.externalID, tc.name); got != tc.want {
			t.Fatalf("unexpected team id: got=%q want=%q", got, tc.want)
		}
	}
}
