package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

const defaultDeliveryWorkers = 16

// Fanout sends one notification to many recipients on a bounded worker pool.
type Fanout struct {
	sender  PushSender
	workers int
	logger  *logging.Logger
}

func NewFanout(sender PushSender, workers int, logger *logging.Logger) *Fanout {
	if workers <= 0 {
		workers = defaultDeliveryWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Fanout{sender: sender, workers: workers, logger: logger}
}

// Deliver never fails because of a single recipient. The error return is reserved
// for the pool itself.
func (f *Fanout) Deliver(ctx context.Context, recipients []Recipient, notification Notification) (DeliveryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Fanout.Deliver")
	defer span.End()

	report := DeliveryReport{Results: make([]DeliveryResult, len(recipients))}
	if len(recipients) == 0 {
		return report, nil
	}

	workerCount := f.workers
	if workerCount > len(recipients) {
		workerCount = len(recipients)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return DeliveryReport{}, fmt.Errorf("create delivery pool: %w", err)
	}
	defer pool.Release()

	var delivered atomic.Int32
	var workers sync.WaitGroup
	for i, recipient := range recipients {
		i, recipient := i, recipient
		report.Results[i] = DeliveryResult{UserID: recipient.UserID, Token: recipient.Token}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := f.send(ctx, recipient.Token, notification); err != nil {
				report.Results[i].Reason = DeliveryReason(err)
				f.logger.WarnContext(ctx, "push delivery failed",
					"user_id", recipient.UserID,
					"reason", report.Results[i].Reason,
					"error", err,
				)
				return
			}
			report.Results[i].Delivered = true
			delivered.Add(1)
		}); err != nil {
			workers.Done()
			report.Results[i].Reason = DeliveryReasonUnavailable
			f.logger.WarnContext(ctx, "submit push delivery failed", "user_id", recipient.UserID, "error", err)
		}
	}
	workers.Wait()

	report.Attempted = len(recipients)
	report.Delivered = int(delivered.Load())
	report.Failed = report.Attempted - report.Delivered
	return report, nil
}

func (f *Fanout) send(ctx context.Context, token string, notification Notification) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &DeliveryError{Reason: DeliveryReasonUnknown, Err: fmt.Errorf("panic in push sender: %v", recovered)}
		}
	}()
	return f.sender.Send(ctx, token, notification)
}
