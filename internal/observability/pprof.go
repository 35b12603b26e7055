package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/config"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// startPprof binds before returning so a taken port fails startup instead of
// a background goroutine.
func startPprof(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	if !cfg.PprofEnabled {
		return nil, nil
	}

	listener, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	logger.Info("pprof listening", "addr", listener.Addr().String())

	return func(ctx context.Context) error { return srv.Shutdown(ctx) }, nil
}
