package observability

import (
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/matchday-alerts/internal/config"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// startTracing installs the global OpenTelemetry providers that otelhttp,
// otelsql and the usecase spans export through.
func startTracing(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if !cfg.UptraceEnabled || dsn == "" {
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("uptrace enabled", "service_version", cfg.ServiceVersion)
	return uptrace.Shutdown, nil
}
