// Package observability owns the process-wide tracing exporter, the
// continuous profiler and the pprof listener.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-alerts/internal/config"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

type stopFunc func(context.Context) error

type component struct {
	name string
	stop stopFunc
}

// Telemetry is what Start brought up, stopped in reverse order by Shutdown.
type Telemetry struct {
	components []component
	logger     *logging.Logger
}

type starter struct {
	name  string
	start func(config.Config, *logging.Logger) (stopFunc, error)
}

// Start brings up each enabled component. A failure stops what already started.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}

	t := &Telemetry{logger: logger}
	for _, s := range []starter{
		{name: "uptrace", start: startTracing},
		{name: "pyroscope", start: startProfiling},
		{name: "pprof", start: startPprof},
	} {
		stop, err := s.start(cfg, logger)
		if err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", s.name, err)
		}
		if stop == nil {
			logger.Info("telemetry component disabled", "component", s.name)
			continue
		}
		t.components = append(t.components, component{name: s.name, stop: stop})
	}
	return t, nil
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	for i := len(t.components) - 1; i >= 0; i-- {
		c := t.components[i]
		if err := c.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", c.name, err))
			continue
		}
		t.logger.Info("telemetry component stopped", "component", c.name)
	}
	t.components = nil
	return errors.Join(errs...)
}

// Enabled lists the running components.
func (t *Telemetry) Enabled() []string {
	names := make([]string, 0, len(t.components))
	for _, c := range t.components {
		names = append(names, c.name)
	}
	return names
}
