package schedule

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{name: "five minutes", spec: Every(5 * time.Minute)},
		{name: "daily", spec: Daily(6*time.Hour, time.UTC)},
		{name: "weekly", spec: Weekly(0, time.UTC)},
		{name: "zero interval", spec: Spec{}, wantErr: true},
		{name: "interval not dividing week", spec: Every(7 * time.Minute), wantErr: true},
		{name: "negative offset", spec: Spec{Interval: time.Hour, Offset: -time.Minute}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.spec.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected validate result: got=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestSpecNext_FiveMinuteCadence(t *testing.T) {
	t.Parallel()

	spec := Every(5 * time.Minute)
	after := time.Date(2026, 3, 4, 10, 7, 12, 0, time.UTC)

	got := spec.Next(after)
	want := time.Date(2026, 3, 4, 10, 10, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected next: got=%s want=%s", got, want)
	}

	onBoundary := spec.Next(want)
	if !onBoundary.Equal(want.Add(5 * time.Minute)) {
		t.Fatalf("unexpected next on boundary: got=%s want=%s", onBoundary, want.Add(5*time.Minute))
	}
}

func TestSpecNext_DailyAtSixInSeoul(t *testing.T) {
	t.Parallel()

	seoul := mustLocation(t, "Asia/Seoul")
	spec := Daily(6*time.Hour, seoul)

	// 2026-03-04 07:00 Seoul is 2026-03-03 22:00 UTC.
	after := time.Date(2026, 3, 3, 22, 0, 0, 0, time.UTC)
	got := spec.Next(after)
	want := time.Date(2026, 3, 5, 6, 0, 0, 0, seoul)
	if !got.Equal(want) {
		t.Fatalf("unexpected next: got=%s want=%s", got, want)
	}

	early := time.Date(2026, 3, 4, 5, 59, 0, 0, seoul)
	got = spec.Next(early)
	want = time.Date(2026, 3, 4, 6, 0, 0, 0, seoul)
	if !got.Equal(want) {
		t.Fatalf("unexpected next before offset: got=%s want=%s", got, want)
	}
}

func TestSpecNext_WeeklySundayMidnight(t *testing.T) {
	t.Parallel()

	seoul := mustLocation(t, "Asia/Seoul")
	spec := Weekly(0, seoul)

	// Wednesday.
	after := time.Date(2026, 3, 4, 12, 0, 0, 0, seoul)
	got := spec.Next(after)
	want := time.Date(2026, 3, 8, 0, 0, 0, 0, seoul)
	if !got.Equal(want) {
		t.Fatalf("unexpected next: got=%s want=%s", got, want)
	}
	if got.In(seoul).Weekday() != time.Sunday {
		t.Fatalf("unexpected weekday: got=%s want=%s", got.In(seoul).Weekday(), time.Sunday)
	}

	exactly := spec.Next(want)
	if !exactly.Equal(want.AddDate(0, 0, 7)) {
		t.Fatalf("unexpected next from boundary: got=%s", exactly)
	}
}

func TestSpecPrev(t *testing.T) {
	t.Parallel()

	spec := Every(5 * time.Minute)
	at := time.Date(2026, 3, 4, 10, 10, 0, 0, time.UTC)
	if got := spec.Prev(at); !got.Equal(at) {
		t.Fatalf("unexpected prev on boundary: got=%s want=%s", got, at)
	}
	if got := spec.Prev(at.Add(4 * time.Minute)); !got.Equal(at) {
		t.Fatalf("unexpected prev inside slot: got=%s want=%s", got, at)
	}
}

func TestSpecNext_DailyKeepsLocalHourAcrossDST(t *testing.T) {
	t.Parallel()

	newYork := mustLocation(t, "America/New_York")
	spec := Daily(6*time.Hour, newYork)

	// Clocks spring forward on 2026-03-08 and fall back on 2026-11-01.
	cases := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			name:  "spring forward day",
			after: time.Date(2026, 3, 7, 12, 0, 0, 0, newYork),
			want:  time.Date(2026, 3, 8, 6, 0, 0, 0, newYork),
		},
		{
			name:  "day after spring forward",
			after: time.Date(2026, 3, 8, 6, 0, 0, 0, newYork),
			want:  time.Date(2026, 3, 9, 6, 0, 0, 0, newYork),
		},
		{
			name:  "fall back day",
			after: time.Date(2026, 10, 31, 7, 0, 0, 0, newYork),
			want:  time.Date(2026, 11, 1, 6, 0, 0, 0, newYork),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := spec.Next(tc.after)
			if !got.Equal(tc.want) {
				t.Fatalf("unexpected next: got=%s want=%s", got, tc.want)
			}
			if hour := got.In(newYork).Hour(); hour != 6 {
				t.Fatalf("unexpected local hour: got=%d want=%d", hour, 6)
			}
		})
	}
}

func TestSpecNext_WeeklyKeepsLocalMidnightAcrossDST(t *testing.T) {
	t.Parallel()

	newYork := mustLocation(t, "America/New_York")
	spec := Weekly(0, newYork)

	first := spec.Next(time.Date(2026, 3, 4, 12, 0, 0, 0, newYork))
	if want := time.Date(2026, 3, 8, 0, 0, 0, 0, newYork); !first.Equal(want) {
		t.Fatalf("unexpected next: got=%s want=%s", first, want)
	}

	second := spec.Next(first)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, newYork)
	if !second.Equal(want) {
		t.Fatalf("unexpected next after DST change: got=%s want=%s", second, want)
	}
	if gap := second.Sub(first); gap != Week-time.Hour {
		t.Fatalf("unexpected gap: got=%s want=%s", gap, Week-time.Hour)
	}
}

func TestSpecPrev_DailyAcrossDST(t *testing.T) {
	t.Parallel()

	newYork := mustLocation(t, "America/New_York")
	spec := Daily(6*time.Hour, newYork)

	fire := time.Date(2026, 3, 8, 6, 0, 0, 0, newYork)
	if got := spec.Prev(fire); !got.Equal(fire) {
		t.Fatalf("unexpected prev on boundary: got=%s want=%s", got, fire)
	}
	if got := spec.Prev(fire.Add(-time.Minute)); !got.Equal(time.Date(2026, 3, 7, 6, 0, 0, 0, newYork)) {
		t.Fatalf("unexpected prev before boundary: got=%s", got)
	}
}
