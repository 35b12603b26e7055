package usecase

import (
	"errors"
	"fmt"
)

// Sentinels the transport maps onto status codes. Wrap them with %w.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Delivery failure reasons reported per token.
const (
	DeliveryReasonUnregistered    = "unregistered"
	DeliveryReasonInvalidArgument = "invalid_argument"
	DeliveryReasonQuotaExceeded   = "quota_exceeded"
	DeliveryReasonUnavailable     = "unavailable"
	DeliveryReasonCircuitOpen     = "circuit_open"
	DeliveryReasonUnknown         = "unknown"
)

// DeliveryError is a per-token push failure. Unavailable and circuit-open
// failures also match ErrDependencyUnavailable.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return "delivery failed: " + e.Reason
	}
	return fmt.Sprintf("delivery failed (%s): %v", e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func DeliveryReason(err error) string {
	if err == nil {
		return ""
	}
	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) && deliveryErr.Reason != "" {
		return deliveryErr.Reason
	}
	return DeliveryReasonUnknown
}

func (e *DeliveryError) Is(target error) bool {
	if target != ErrDependencyUnavailable {
		return false
	}
	return e.Reason == DeliveryReasonUnavailable || e.Reason == DeliveryReasonCircuitOpen
}
