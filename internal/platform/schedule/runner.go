package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// Task is a periodic unit of work. Run receives the scheduled fire instant, not the wall clock.
type Task struct {
	Name string
	Spec Spec
	Run  func(ctx context.Context, at time.Time) error
}

type Runner struct {
	tasks  []Task
	logger *logging.Logger
	now    func() time.Time
	wait   func(ctx context.Context, d time.Duration) bool
}

func NewRunner(logger *logging.Logger, tasks ...Task) (*Runner, error) {
	if logger == nil {
		logger = logging.Default()
	}
	for _, task := range tasks {
		if task.Run == nil {
			return nil, fmt.Errorf("schedule task %q has no run func", task.Name)
		}
		if err := task.Spec.Validate(); err != nil {
			return nil, fmt.Errorf("schedule task %q: %w", task.Name, err)
		}
	}

	return &Runner{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
		wait:   sleepContext,
	}, nil
}

// Start blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	var wg conc.WaitGroup
	for _, task := range r.tasks {
		task := task
		wg.Go(func() {
			r.loop(ctx, task)
		})
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, task Task) {
	r.logger.InfoContext(ctx, "scheduled task registered",
		"task", task.Name,
		"interval", task.Spec.Interval.String(),
		"offset", task.Spec.Offset.String(),
		"location", task.Spec.location().String(),
	)

	for {
		at := task.Spec.Next(r.now())
		if !r.wait(ctx, at.Sub(r.now())) {
			return
		}

		startedAt := time.Now()
		err := r.runOnce(ctx, task, at)
		if err != nil {
			r.logger.ErrorContext(ctx, "scheduled task failed",
				"task", task.Name,
				"scheduled_at", at,
				"duration_ms", time.Since(startedAt).Milliseconds(),
				"error", err,
			)
			continue
		}
		r.logger.InfoContext(ctx, "scheduled task completed",
			"task", task.Name,
			"scheduled_at", at,
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	}
}

func (r *Runner) runOnce(ctx context.Context, task Task, at time.Time) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic in task %s: %v", task.Name, recovered)
		}
	}()
	return task.Run(ctx, at)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
