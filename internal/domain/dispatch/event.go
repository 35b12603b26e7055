package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusSent      Status = "sent"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const (
	DefaultScope = "global"
	unknownJob   = "unknown"
)

var (
	ErrMissingID     = errors.New("dispatch id is required")
	ErrInvalidStatus = errors.New("invalid dispatch status")
)

func (s Status) Valid() bool {
	switch s {
	case StatusSent, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Accepts reports whether a stored status may be replaced by next. A completed
// slot ignores a late "sent" so a redelivered trigger cannot reopen it.
func (s Status) Accepts(next Status) bool {
	return s != StatusCompleted || next != StatusSent
}

// Event is one state change of a job slot, keyed by DispatchID.
type Event struct {
	DispatchID   string
	JobName      string
	JobPath      string
	Scope        string
	Status       Status
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}

// Normalize trims identifiers and fills the defaults every store persists.
func (e Event) Normalize(now time.Time) (Event, error) {
	e.DispatchID = strings.TrimSpace(e.DispatchID)
	if e.DispatchID == "" {
		return Event{}, ErrMissingID
	}
	if !e.Status.Valid() {
		return Event{}, ErrInvalidStatus
	}

	e.JobName = strings.TrimSpace(e.JobName)
	if e.JobName == "" {
		e.JobName = unknownJob
	}
	e.JobPath = strings.TrimSpace(e.JobPath)
	if e.JobPath == "" {
		e.JobPath = "/" + unknownJob
	}
	e.Scope = strings.TrimSpace(e.Scope)
	if e.Scope == "" {
		e.Scope = DefaultScope
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	e.OccurredAt = e.OccurredAt.UTC()
	if e.Payload == nil {
		e.Payload = map[string]any{}
	}
	if e.Status != StatusFailed {
		e.ErrorMessage = ""
	}
	return e, nil
}

type Repository interface {
	UpsertEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, dispatchID string) (Event, bool, error)
}
