package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	preferencemock "github.com/riskibarqy/matchday-alerts/internal/mocks/domain/preference"
	usermock "github.com/riskibarqy/matchday-alerts/internal/mocks/domain/user"
)

func TestRecipientResolver_SkipsMissingUsersAndDedupesTokens(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	repos.store.PutPreferences(
		preference.Preference{ID: "p1", MatchID: "m1", UserID: "u1", NotifyKickoff: true},
		preference.Preference{ID: "p2", MatchID: "m1", UserID: "u2", NotifyKickoff: true},
		preference.Preference{ID: "p3", MatchID: "m1", UserID: "u3", NotifyKickoff: true},
		preference.Preference{ID: "p4", MatchID: "m1", UserID: "u4", NotifyKickoff: true},
		preference.Preference{ID: "p5", MatchID: "m1", UserID: "ghost", NotifyKickoff: true},
		preference.Preference{ID: "p6", MatchID: "m1", UserID: "u5", NotifyKickoff: false, NotifyResult: true},
		preference.Preference{ID: "p7", MatchID: "m2", UserID: "u1", NotifyKickoff: true},
	)
	repos.store.PutUsers(
		user.User{ID: "u1", DeviceToken: "tok-a"},
		user.User{ID: "u2", DeviceToken: "  "},
		user.User{ID: "u3", DeviceToken: "tok-a"},
		user.User{ID: "u4", DeviceToken: "tok-b"},
		user.User{ID: "u5", DeviceToken: "tok-c"},
	)

	resolver := NewRecipientResolver(repos.preferences, repos.users, 2)
	got, err := resolver.Resolve(context.Background(), "m1", preference.FlagKickoff)
	if err != nil {
		t.Fatalf("resolve recipients: %v", err)
	}

	want := []Recipient{{UserID: "u1", Token: "tok-a"}, {UserID: "u4", Token: "tok-b"}}
	if len(got) != len(want) {
		t.Fatalf("unexpected recipient count: got=%d want=%d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected recipient[%d]: got=%+v want=%+v", i, got[i], want[i])
		}
	}
}

func TestRecipientResolver_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	got, err := NewRecipientResolver(repos.preferences, repos.users, 0).Resolve(context.Background(), "m1", preference.FlagResult)
	if err != nil {
		t.Fatalf("resolve recipients: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("unexpected recipients: %+v", got)
	}
}

func TestRecipientResolver_RejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	repos := newTestRepos()
	_, err := NewRecipientResolver(repos.preferences, repos.users, 0).Resolve(context.Background(), "m1", preference.Flag("notifyHalftime"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
	}
}

func TestRecipientResolver_PropagatesUserLookupError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	prefRepo := preferencemock.NewRepository(t)
	userRepo := usermock.NewRepository(t)
	storeErr := errors.New("users unavailable")

	prefRepo.
		On("ListOptedIn", mock.Anything, "m1", preference.FlagResult).
		Return([]preference.Preference{{ID: "p1", MatchID: "m1", UserID: "u1", NotifyResult: true}}, nil).
		Once()
	userRepo.
		On("GetByID", mock.Anything, "u1").
		Return(user.User{}, false, storeErr).
		Once()

	_, err := NewRecipientResolver(prefRepo, userRepo, 4).Resolve(ctx, "m1", preference.FlagResult)
	if !errors.Is(err, storeErr) {
		t.Fatalf("unexpected error: got=%v want=%v", err, storeErr)
	}
}
