package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

type Handler struct {
	deviceTokenService *usecase.DeviceTokenService
	statsAggregator    *usecase.StatsAggregator
	followService      *usecase.FollowService
	preferenceService  *usecase.PreferenceService
	jobRunner          *usecase.JobRunner
	// reactions runs the change handlers in-process when a queued change arrives.
	reactions usecase.ChangePublisher
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	deviceTokenService *usecase.DeviceTokenService,
	statsAggregator *usecase.StatsAggregator,
	followService *usecase.FollowService,
	preferenceService *usecase.PreferenceService,
	jobRunner *usecase.JobRunner,
	reactions usecase.ChangePublisher,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		deviceTokenService: deviceTokenService,
		statsAggregator:    statsAggregator,
		followService:      followService,
		preferenceService:  preferenceService,
		jobRunner:          jobRunner,
		reactions:          reactions,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := handlerSpan(r.Context(), "Healthz")
	defer span.End()

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RegisterDeviceToken")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req registerDeviceTokenRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.deviceTokenService.RegisterToken(ctx, principal.UserID, req.Token)
	if err != nil {
		h.logger.WarnContext(ctx, "register device token failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) GetAttendanceStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetAttendanceStats")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	report, err := h.statsAggregator.GetStats(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get attendance stats failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, report)
}

func (h *Handler) SetFavoriteTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "SetFavoriteTeams")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req favoriteTeamsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.followService.SetFavoriteTeams(ctx, principal.UserID, req.TeamIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "set favorite teams failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) SetMatchNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "SetMatchNotifications")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req matchNotificationsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	item, err := h.preferenceService.SetMatchNotifications(ctx, principal.UserID, usecase.MatchNotificationInput{
		MatchID:       matchID,
		NotifyKickoff: *req.NotifyKickoff,
		NotifyResult:  *req.NotifyResult,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set match notifications failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, preferenceToDTO(item))
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}

func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := handlerSpan(ctx, "validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
