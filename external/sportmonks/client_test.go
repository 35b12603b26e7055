package sportmonks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

const fixturesPageOne = `{
  "data": [
    {
      "id": 901,
      "league_id": 1034,
      "starting_at": "2026-03-07 05:00:00",
      "state_id": 5,
      "participants": [
        {"id": 11, "name": "Ulsan HD", "image_path": "https://cdn/ulsan.png", "meta": {"location": "home"}},
        {"id": 12, "name": "FC Seoul", "image_path": "https://cdn/seoul.png", "meta": {"location": "away"}}
      ],
      "venue": {"data": {"id": 7, "name": "Munsu Football Stadium"}},
      "scores": [
        {"participant_id": 11, "description": "1ST_HALF", "score": {"goals": 1}},
        {"participant_id": 12, "description": "1ST_HALF", "score": {"goals": 0}},
        {"participant_id": 11, "description": "CURRENT", "score": {"goals": 2}},
        {"participant_id": 12, "description": "CURRENT", "score": {"goals": 1}}
      ]
    },
    {
      "id": 902,
      "league_id": 9999,
      "starting_at": "2026-03-07 07:00:00",
      "state_id": 1,
      "participants": [
        {"id": 21, "name": "Other A", "meta": {"location": "home"}},
        {"id": 22, "name": "Other B", "meta": {"location": "away"}}
      ]
    }
  ],
  "pagination": {"count": 2, "per_page": 50, "current_page": 1, "has_more": true}
}`

const fixturesPageTwo = `{
  "data": [
    {
      "id": 900,
      "league_id": 1034,
      "starting_at": "2026-03-06 10:30:00",
      "state_id": 1,
      "participants": [
        {"id": 13, "name": "Jeonbuk", "meta": {"location": "home"}},
        {"id": 14, "name": "Pohang", "meta": {"location": "away"}}
      ],
      "venue": {"id": 8, "name": "Jeonju World Cup Stadium"},
      "scores": []
    }
  ],
  "pagination": {"count": 1, "per_page": 50, "current_page": 2, "has_more": false}
}`

func newTestClient(baseURL string, cfg ClientConfig) *Client {
	cfg.BaseURL = baseURL
	cfg.Token = "secret-token"
	cfg.Logger = logging.NewNop()
	if cfg.LeagueIDByLeague == nil {
		cfg.LeagueIDByLeague = map[string]int64{"K League 1": 1034}
	}
	client := NewClient(cfg)
	client.retryBackoff = time.Millisecond
	return client
}

func TestClientFetchFixtures_PagesAndMapsFixtures(t *testing.T) {
	t.Parallel()

	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/between/2026-03-04/2026-03-18" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if got := query.Get("api_token"); got != "secret-token" {
			t.Errorf("unexpected api_token: %s", got)
		}
		if got := query.Get("filters"); got != "fixtureLeagues:1034" {
			t.Errorf("unexpected filters: %s", got)
		}
		pages.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch query.Get("page") {
		case "1":
			_, _ = w.Write([]byte(fixturesPageOne))
		case "2":
			_, _ = w.Write([]byte(fixturesPageTwo))
		default:
			t.Errorf("unexpected page: %s", query.Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, ClientConfig{})
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	to := from.Add(14 * 24 * time.Hour)

	fixtures, err := client.FetchFixtures(context.Background(), from, to)
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if pages.Load() != 2 {
		t.Fatalf("unexpected page requests: got=%d want=2", pages.Load())
	}
	if len(fixtures) != 2 {
		t.Fatalf("unexpected fixture count: got=%d want=2", len(fixtures))
	}

	first := fixtures[0]
	if first.ExternalID != 900 || first.Status != match.StatusScheduled {
		t.Fatalf("unexpected first fixture: %+v", first)
	}
	if first.Venue != "Jeonju World Cup Stadium" {
		t.Fatalf("unexpected inline venue: %q", first.Venue)
	}
	if first.HomeScore != nil || first.AwayScore != nil {
		t.Fatalf("scheduled fixture should have no score: %+v", first)
	}

	second := fixtures[1]
	if second.ExternalID != 901 || second.League != "K League 1" {
		t.Fatalf("unexpected second fixture: %+v", second)
	}
	if second.Status != match.StatusFinished {
		t.Fatalf("unexpected status: got=%s want=%s", second.Status, match.StatusFinished)
	}
	if !second.KickoffAt.Equal(time.Date(2026, 3, 7, 5, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", second.KickoffAt)
	}
	if second.HomeTeamExternalID != 11 || second.AwayTeamName != "FC Seoul" || second.HomeTeamLogo != "https://cdn/ulsan.png" {
		t.Fatalf("unexpected participants: %+v", second)
	}
	if second.HomeScore == nil || *second.HomeScore != 2 || second.AwayScore == nil || *second.AwayScore != 1 {
		t.Fatalf("unexpected score: home=%v away=%v", second.HomeScore, second.AwayScore)
	}
	if second.Venue != "Munsu Football Stadium" {
		t.Fatalf("unexpected wrapped venue: %q", second.Venue)
	}
}

func TestClientFetchFixtures_NoLeaguesSkipsRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, ClientConfig{LeagueIDByLeague: map[string]int64{}})
	fixtures, err := client.FetchFixtures(context.Background(), time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(fixtures) != 0 || calls.Load() != 0 {
		t.Fatalf("unexpected result: fixtures=%d calls=%d", len(fixtures), calls.Load())
	}
}

func TestClientFetchFixtures_RetriesTransientStatusThenOpensCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, ClientConfig{
		MaxRetries: 1,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchFixtures(context.Background(), from, from.Add(time.Hour))
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("error leaks api token: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("unexpected attempts: got=%d want=2", calls.Load())
	}

	_, err = client.FetchFixtures(context.Background(), from, from.Add(time.Hour))
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable from open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit should not reach provider: calls=%d", calls.Load())
	}
}

func TestClientFetchFixtures_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, ClientConfig{MaxRetries: 3})
	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchFixtures(context.Background(), from, from.Add(time.Hour))
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected provider status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected attempts: got=%d want=1", calls.Load())
	}
}

func TestMapFixtureStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		stateID int64
		info    string
		want    string
	}{
		{stateID: 1, want: match.StatusScheduled},
		{stateID: 2, want: match.StatusLive},
		{stateID: 5, want: match.StatusFinished},
		{stateID: 10, want: "postponed"},
		{stateID: 12, want: "cancelled"},
		{stateID: 0, info: "Game finished", want: match.StatusFinished},
		{stateID: 0, info: "", want: match.StatusScheduled},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d-%s", tc.stateID, tc.info), func(t *testing.T) {
			t.Parallel()
			if got := mapFixtureStatus(tc.stateID, tc.info); got != tc.want {
				t.Fatalf("unexpected status: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://api.sportmonks.com/v3/football/fixtures?api_token=abc&page=1")
	if strings.Contains(got, "abc") || !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("unexpected redacted url: %s", got)
	}
}
