package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/schedule"
)

const (
	JobKickoffNotifications = "kickoff-notifications"
	JobCleanupNotifications = "cleanup-notifications"
	JobUpdateSchedules      = "update-schedules"

	jobScopeGlobal = "global"
	jobPathPrefix  = "/v1/internal/jobs/"
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type JobSchedules struct {
	Kickoff       schedule.Spec
	DailyUpdate   schedule.Spec
	WeeklyCleanup schedule.Spec
}

type JobRunInput struct {
	At         time.Time
	DispatchID string
}

type JobRunResult struct {
	Job         string    `json:"job"`
	DispatchID  string    `json:"dispatchId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Skipped     bool      `json:"skipped"`
	Output      any       `json:"output,omitempty"`
}

// JobRunner runs the periodic jobs once per schedule slot. The slot is the latest
// fire instant at or before the requested time, and a slot already recorded as
// completed is skipped.
type JobRunner struct {
	kickoff      *KickoffNotifier
	sweeper      *RetentionSweeper
	ingestion    *ScheduleIngestionService
	dispatchRepo dispatch.Repository
	schedules    JobSchedules
	logger       *logging.Logger
	now          func() time.Time
}

func NewJobRunner(
	kickoff *KickoffNotifier,
	sweeper *RetentionSweeper,
	ingestion *ScheduleIngestionService,
	dispatchRepo dispatch.Repository,
	schedules JobSchedules,
	logger *logging.Logger,
) *JobRunner {
	if logger == nil {
		logger = logging.Default()
	}
	return &JobRunner{
		kickoff:      kickoff,
		sweeper:      sweeper,
		ingestion:    ingestion,
		dispatchRepo: dispatchRepo,
		schedules:    schedules,
		logger:       logger,
		now:          time.Now,
	}
}

func (r *JobRunner) Schedules() JobSchedules {
	return r.schedules
}

func (r *JobRunner) RunKickoff(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.RunKickoff")
	defer span.End()

	return r.run(ctx, JobKickoffNotifications, r.schedules.Kickoff, input, func(ctx context.Context, at time.Time) (any, error) {
		return r.kickoff.Run(ctx, at)
	})
}

func (r *JobRunner) RunCleanup(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.RunCleanup")
	defer span.End()

	return r.run(ctx, JobCleanupNotifications, r.schedules.WeeklyCleanup, input, func(ctx context.Context, at time.Time) (any, error) {
		return r.sweeper.Run(ctx, at)
	})
}

func (r *JobRunner) RunScheduleUpdate(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobRunner.RunScheduleUpdate")
	defer span.End()

	return r.run(ctx, JobUpdateSchedules, r.schedules.DailyUpdate, input, func(ctx context.Context, at time.Time) (any, error) {
		return r.ingestion.Run(ctx, at)
	})
}

func (r *JobRunner) run(
	ctx context.Context,
	job string,
	spec schedule.Spec,
	input JobRunInput,
	fn func(ctx context.Context, at time.Time) (any, error),
) (JobRunResult, error) {
	at := input.At
	if at.IsZero() {
		at = r.now()
	}
	slot := at
	if spec.Interval > 0 {
		slot = spec.Prev(at)
	}

	dispatchID := strings.TrimSpace(input.DispatchID)
	if dispatchID == "" {
		dispatchID = dedupKey(job, jobScopeGlobal, slot)
	}
	result := JobRunResult{Job: job, DispatchID: dispatchID, ScheduledAt: slot.UTC()}

	if r.slotCompleted(ctx, dispatchID) {
		result.Skipped = true
		r.logger.InfoContext(ctx, "job slot already completed, skipping", "job", job, "dispatch_id", dispatchID)
		return result, nil
	}

	payload := map[string]any{
		"job":          job,
		"scheduled_at": slot.UTC().Format(time.RFC3339),
	}
	r.recordDispatchEvent(ctx, dispatch.Event{
		DispatchID: dispatchID,
		JobName:    job,
		JobPath:    jobPathPrefix + job,
		Scope:      jobScopeGlobal,
		Status:     dispatch.StatusSent,
		Payload:    payload,
	})

	output, err := fn(ctx, slot)
	if err != nil {
		r.recordDispatchEvent(ctx, dispatch.Event{
			DispatchID:   dispatchID,
			JobName:      job,
			JobPath:      jobPathPrefix + job,
			Scope:        jobScopeGlobal,
			Status:       dispatch.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
		})
		return JobRunResult{}, fmt.Errorf("run job %s slot=%s: %w", job, slot.UTC().Format(time.RFC3339), err)
	}

	r.recordDispatchEvent(ctx, dispatch.Event{
		DispatchID: dispatchID,
		JobName:    job,
		JobPath:    jobPathPrefix + job,
		Scope:      jobScopeGlobal,
		Status:     dispatch.StatusCompleted,
		Payload:    payload,
	})
	result.Output = output
	return result, nil
}

func (r *JobRunner) slotCompleted(ctx context.Context, dispatchID string) bool {
	if r.dispatchRepo == nil {
		return false
	}
	event, exists, err := r.dispatchRepo.GetEvent(ctx, dispatchID)
	if err != nil {
		r.logger.WarnContext(ctx, "load job dispatch event failed", "dispatch_id", dispatchID, "error", err)
		return false
	}
	return exists && event.Status == dispatch.StatusCompleted
}

// dedupKey renders a queue-safe id for one job slot.
func dedupKey(prefix, scope string, slot time.Time) string {
	return sanitizeDedupSegment(prefix) + "-" +
		sanitizeDedupSegment(scope) + "-" +
		slot.UTC().Format("20060102T150405Z")
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (r *JobRunner) recordDispatchEvent(ctx context.Context, event dispatch.Event) {
	if r.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	event.TraceID, event.SpanID = traceIDs(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = r.now().UTC()
	}
	if err := r.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}
