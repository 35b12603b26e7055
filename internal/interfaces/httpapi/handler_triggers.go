package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

func (h *Handler) HandleMatchUpdated(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "HandleMatchUpdated")
	defer span.End()

	var req matchUpdatedRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	change := usecase.MatchChange{After: req.After.Match()}
	if req.Before != nil {
		change.Before = req.Before.Match()
	}

	if err := h.reactions.PublishMatchChange(ctx, change); err != nil {
		h.logger.WarnContext(ctx, "handle match change failed", "match_id", change.After.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"matchId": change.After.ID, "handled": true})
}

func (h *Handler) HandleUserUpdated(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "HandleUserUpdated")
	defer span.End()

	var req userUpdatedRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	change := usecase.UserChange{UserID: req.UserID, Previous: req.Previous, Next: req.Next}
	if err := h.reactions.PublishUserChange(ctx, change); err != nil {
		h.logger.WarnContext(ctx, "handle user change failed", "user_id", change.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"userId": change.UserID, "handled": true})
}
