package querybuilder

import (
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestSelectBuilder_KickoffRange(t *testing.T) {
	query, args, err := Select("id", "home_team_name").
		From("matches").
		Where(
			Window("kickoff_at", "from", "to"),
			Eq("status", "scheduled"),
		).
		OrderBy("kickoff_at", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, home_team_name FROM matches WHERE kickoff_at >= $1 AND kickoff_at < $2 AND status = $3 ORDER BY kickoff_at, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "from" || args[1] != "to" || args[2] != "scheduled" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("notification_preferences").Where(In("match_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM notification_preferences WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_Upsert(t *testing.T) {
	query, args, err := InsertInto("users").
		Columns("id", "device_token").
		Values("u1", "tok-1").
		Suffix("ON CONFLICT (id) DO UPDATE SET device_token = EXCLUDED.device_token").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO users (id, device_token) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET device_token = EXCLUDED.device_token"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "tok-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_FollowedBoost(t *testing.T) {
	query, args, err := Update("matches").
		Set("followed_boost", true).
		SetExpr("updated_at", "NOW()").
		Where(In("id", []any{"m1", "m2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET followed_boost = $1, updated_at = NOW() WHERE id IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != true || args[1] != "m1" || args[2] != "m2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("notification_preferences").
		Where(In("id", []any{"p1", "p2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM notification_preferences WHERE id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("notification_preferences").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where clause")
	}
}

func TestConditions_BeforeAndArrayContains(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("1").
		From("users").
		Where(
			ArrayContains("favorite_team_ids", "ulsan-hd"),
			Before("updated_at", cutoff),
			IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT 1 FROM users WHERE favorite_team_ids @> $1 AND updated_at < $2 AND deleted_at IS NULL LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
	arr, ok := args[0].(*pq.StringArray)
	if !ok || len(*arr) != 1 || (*arr)[0] != "ulsan-hd" {
		t.Fatalf("unexpected array arg: %#v", args[0])
	}
	if args[1] != cutoff {
		t.Fatalf("unexpected cutoff arg: %v", args[1])
	}
}

func TestInStrings(t *testing.T) {
	query, args, err := DeleteFrom("notification_preferences").
		Where(InStrings("public_id", []string{"p1", "p2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM notification_preferences WHERE public_id IN ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "p1" || args[1] != "p2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type upsertRow struct {
	PublicID      string `db:"public_id"`
	NotifyKickoff bool   `db:"notify_kickoff"`
	NotifyResult  bool   `db:"notify_result"`
	internal      string
	Ignored       string `db:"-"`
}

func TestUpsertModel(t *testing.T) {
	row := upsertRow{PublicID: "m1_u1", NotifyKickoff: true, internal: "x", Ignored: "y"}

	query, args, err := UpsertModel("notification_preferences", row, Conflict{
		Target: []string{"public_id"},
		Where:  "deleted_at IS NULL",
		Set:    []string{"updated_at = NOW()"},
	})
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO notification_preferences (public_id, notify_kickoff, notify_result) VALUES ($1, $2, $3) " +
		"ON CONFLICT (public_id) WHERE deleted_at IS NULL DO UPDATE SET notify_kickoff = EXCLUDED.notify_kickoff, " +
		"notify_result = EXCLUDED.notify_result, updated_at = NOW()"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "m1_u1" || args[1] != true || args[2] != false {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := UpsertModel("notification_preferences", row, Conflict{}); err == nil {
		t.Fatalf("expected error without conflict target")
	}
}

func TestConflict_DoNothing(t *testing.T) {
	got := Conflict{Target: []string{"dispatch_id"}}.SQL()
	if got != "ON CONFLICT (dispatch_id) DO NOTHING" {
		t.Fatalf("unexpected conflict clause: %s", got)
	}
}

func TestConflict_UpdateWhere(t *testing.T) {
	t.Parallel()

	got := Conflict{
		Target:      []string{"dispatch_id"},
		Excluded:    []string{"status"},
		UpdateWhere: "job_dispatches.status <> 'completed'",
	}.SQL()
	want := "ON CONFLICT (dispatch_id) DO UPDATE SET status = EXCLUDED.status WHERE job_dispatches.status <> 'completed'"
	if got != want {
		t.Fatalf("unexpected conflict clause:\nwant: %s\ngot:  %s", want, got)
	}
}
