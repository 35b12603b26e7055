package match

import "testing"

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":          StatusScheduled,
		" Finished": StatusFinished,
		"FT":        StatusFinished,
		"LIVE":      StatusLive,
		"ht":        StatusLive,
		"postponed": "postponed",
	}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Fatalf("unexpected status for %q: got=%q want=%q", in, got, want)
		}
	}
}

func TestMatch_OpponentOf(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamID: "home", AwayTeamID: "away"}
	if got := m.OpponentOf("home"); got != "away" {
		t.Fatalf("unexpected opponent: got=%q want=%q", got, "away")
	}
	if got := m.OpponentOf("away"); got != "home" {
		t.Fatalf("unexpected opponent: got=%q want=%q", got, "home")
	}
	if got := m.OpponentOf("other"); got != "" {
		t.Fatalf("expected empty opponent, got=%q", got)
	}
}
