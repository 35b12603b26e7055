package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

const maxInternalBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type jobRunFunc func(ctx context.Context, input usecase.JobRunInput) (usecase.JobRunResult, error)

func (h *Handler) RunKickoffJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RunKickoffJob", attribute.String("job.name", usecase.JobKickoffNotifications))
	defer span.End()

	h.runJob(ctx, w, r, usecase.JobKickoffNotifications, h.jobRunner.RunKickoff)
}

func (h *Handler) RunCleanupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RunCleanupJob", attribute.String("job.name", usecase.JobCleanupNotifications))
	defer span.End()

	h.runJob(ctx, w, r, usecase.JobCleanupNotifications, h.jobRunner.RunCleanup)
}

func (h *Handler) RunScheduleUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RunScheduleUpdateJob", attribute.String("job.name", usecase.JobUpdateSchedules))
	defer span.End()

	h.runJob(ctx, w, r, usecase.JobUpdateSchedules, h.jobRunner.RunScheduleUpdate)
}

func (h *Handler) runJob(ctx context.Context, w http.ResponseWriter, r *http.Request, job string, run jobRunFunc) {
	var req internalJobRequest
	if err := h.decodeOptionalBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.JobRunInput{DispatchID: req.DispatchID}
	if req.At != nil {
		input.At = req.At.UTC()
	}

	result, err := run(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "run internal job failed", "job", job, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// decodeOptionalBody accepts an empty body as the zero request.
func (h *Handler) decodeOptionalBody(ctx context.Context, r *http.Request, payload any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxInternalBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := strictJSON.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}
