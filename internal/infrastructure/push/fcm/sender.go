package fcm

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/messaging"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

// MessageClient is the subset of *messaging.Client the sender needs.
type MessageClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Config struct {
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Sender delivers one notification per device token through FCM.
type Sender struct {
	client   MessageClient
	guard    *resilience.Guard
	classify func(error) string
	logger   *logging.Logger
}

func NewSender(client MessageClient, cfg Config, logger *logging.Logger) *Sender {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Sender{
		client:   client,
		classify: classifyError,
		logger:   logger,
	}
	// Only provider-side outages count; bad tokens say nothing about FCM health.
	s.guard = resilience.NewGuard("fcm", cfg.CircuitBreaker, func(err error) bool {
		return s.classify(err) == usecase.DeliveryReasonUnavailable
	}, logger)
	return s
}

func (s *Sender) Send(ctx context.Context, token string, notification usecase.Notification) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return &usecase.DeliveryError{Reason: usecase.DeliveryReasonInvalidArgument, Err: crerr.New("device token is empty")}
	}

	if err := s.guard.Allow(); err != nil {
		return &usecase.DeliveryError{Reason: usecase.DeliveryReasonCircuitOpen, Err: err}
	}

	_, err := s.client.Send(ctx, buildMessage(token, notification))
	s.guard.Record(err)
	if err == nil {
		return nil
	}

	reason := s.classify(err)
	if reason == usecase.DeliveryReasonUnregistered {
		s.logger.InfoContext(ctx, "fcm token is no longer registered", "reason", reason)
	}
	return &usecase.DeliveryError{Reason: reason, Err: crerr.Wrap(err, "send fcm message")}
}

func buildMessage(token string, notification usecase.Notification) *messaging.Message {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	hints := notification.Hints
	if hints.AndroidPriority != "" || hints.AndroidChannelID != "" {
		message.Android = &messaging.AndroidConfig{Priority: hints.AndroidPriority}
		if hints.AndroidChannelID != "" {
			message.Android.Notification = &messaging.AndroidNotification{ChannelID: hints.AndroidChannelID}
		}
	}
	if hints.APNSSound != "" || hints.APNSBadge != nil {
		aps := &messaging.Aps{Sound: hints.APNSSound}
		if hints.APNSBadge != nil {
			badge := *hints.APNSBadge
			aps.Badge = &badge
		}
		message.APNS = &messaging.APNSConfig{Payload: &messaging.APNSPayload{Aps: aps}}
	}
	return message
}

// classifyError maps FCM error codes onto delivery reasons. Only unavailable and
// internal errors count against the circuit.
func classifyError(err error) string {
	switch {
	case messaging.IsUnregistered(err), messaging.IsSenderIDMismatch(err):
		return usecase.DeliveryReasonUnregistered
	case messaging.IsInvalidArgument(err):
		return usecase.DeliveryReasonInvalidArgument
	case messaging.IsQuotaExceeded(err):
		return usecase.DeliveryReasonQuotaExceeded
	case messaging.IsUnavailable(err), messaging.IsInternal(err):
		return usecase.DeliveryReasonUnavailable
	default:
		return usecase.DeliveryReasonUnknown
	}
}
