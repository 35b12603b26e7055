package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// RouterConfig carries the settings the router needs beyond its handler.
type RouterConfig struct {
	Verifier           TokenVerifier
	Logger             *logging.Logger
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

type access int

const (
	accessPublic access = iota
	accessUser
	accessInternal
)

type route struct {
	pattern string
	access  access
	handle  http.HandlerFunc
}

func routes(h *Handler, swaggerEnabled bool) []route {
	out := []route{
		{"GET /healthz", accessPublic, h.Healthz},

		{"POST /v1/me/device-token", accessUser, h.RegisterDeviceToken},
		{"GET /v1/me/attendance-stats", accessUser, h.GetAttendanceStats},
		{"PUT /v1/me/favorite-teams", accessUser, h.SetFavoriteTeams},
		{"PUT /v1/me/matches/{matchID}/notifications", accessUser, h.SetMatchNotifications},

		{"POST /v1/internal/jobs/kickoff-notifications", accessInternal, h.RunKickoffJob},
		{"POST /v1/internal/jobs/cleanup-notifications", accessInternal, h.RunCleanupJob},
		{"POST /v1/internal/jobs/update-schedules", accessInternal, h.RunScheduleUpdateJob},
		// Posted back by the job queue when change triggers are published asynchronously.
		{"POST /v1/internal/triggers/match-updated", accessInternal, h.HandleMatchUpdated},
		{"POST /v1/internal/triggers/user-updated", accessInternal, h.HandleUserUpdated},
	}
	if swaggerEnabled {
		out = append(out,
			route{"GET /openapi.yaml", accessPublic, h.OpenAPI},
			route{"GET /docs", accessPublic, h.SwaggerUI},
			route{"GET /docs/", accessPublic, h.SwaggerUI},
		)
	}
	return out
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	for _, rt := range routes(handler, cfg.SwaggerEnabled) {
		var h http.Handler = rt.handle
		switch rt.access {
		case accessUser:
			h = RequireAuth(cfg.Verifier, h)
		case accessInternal:
			h = RequireInternalJobToken(cfg.InternalJobToken, h)
		}
		mux.Handle(rt.pattern, h)
	}

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
			writeError(r.Context(), w, fmt.Errorf("panic: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
