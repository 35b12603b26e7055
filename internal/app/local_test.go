package app

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

func TestLocalVerifier(t *testing.T) {
	t.Parallel()

	principal, err := localVerifier{}.VerifyAccessToken(context.Background(), " local:u1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != "u1" {
		t.Fatalf("unexpected user id: got=%s want=u1", principal.UserID)
	}

	for _, token := range []string{"", "u1", "local:", "local:  "} {
		if _, err := (localVerifier{}).VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("unexpected error for %q: got=%v want=%v", token, err, usecase.ErrUnauthorized)
		}
	}
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	sender := &logSender{logger: logging.NewNop()}
	if err := sender.Send(context.Background(), "token-123456789", usecase.Notification{Title: "t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := sender.Send(context.Background(), " ", usecase.Notification{})
	if got := usecase.DeliveryReason(err); got != usecase.DeliveryReasonInvalidArgument {
		t.Fatalf("unexpected reason: got=%s want=%s", got, usecase.DeliveryReasonInvalidArgument)
	}
}
