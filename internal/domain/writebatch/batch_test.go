package writebatch

import (
	"reflect"
	"testing"
)

func TestOps_LastBoostWinsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	var ops Ops
	ops.SetMatchFollowedBoost("m-2", true)
	ops.SetMatchFollowedBoost("m-1", true)
	ops.SetMatchFollowedBoost("m-2", false)
	ops.SetMatchFollowedBoost(" ", true)

	want := []BoostOp{{MatchID: "m-2", Boosted: false}, {MatchID: "m-1", Boosted: true}}
	if got := ops.Boosts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected boosts: got=%+v want=%+v", got, want)
	}
	if ops.Size() != 2 {
		t.Fatalf("unexpected size: got=%d want=%d", ops.Size(), 2)
	}
}

func TestOps_DeletePreferenceDeduplicates(t *testing.T) {
	t.Parallel()

	var ops Ops
	ops.DeletePreference("p-1")
	ops.DeletePreference("p-1")
	ops.DeletePreference("p-2")

	want := []string{"p-1", "p-2"}
	if got := ops.PreferenceDeletes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected deletes: got=%v want=%v", got, want)
	}
}
