package resilience

import (
	"fmt"

	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// Guard wraps a dependency call site with a named breaker. A disabled guard
// lets every call through and records nothing.
type Guard struct {
	name      string
	breaker   *CircuitBreaker
	isFailure func(error) bool
}

// NewGuard builds a guard for name. isFailure picks the errors that count
// against the circuit; nil counts every error.
func NewGuard(name string, cfg CircuitBreakerConfig, isFailure func(error) bool, logger *logging.Logger) *Guard {
	g := &Guard{name: name, isFailure: isFailure}
	if !cfg.Enabled {
		return g
	}
	if logger == nil {
		logger = logging.Default()
	}

	g.breaker = NewCircuitBreaker(cfg)
	g.breaker.onChange = func(from, to CircuitState) {
		logger.Warn("circuit state changed", "dependency", name, "from", from, "to", to)
	}
	return g
}

// Allow returns an error wrapping ErrCircuitOpen while the dependency is shed.
func (g *Guard) Allow() error {
	if g == nil || g.breaker == nil {
		return nil
	}
	if err := g.breaker.Allow(); err != nil {
		return fmt.Errorf("%s: %w", g.name, err)
	}
	return nil
}

func (g *Guard) Record(err error) {
	if g == nil || g.breaker == nil {
		return
	}
	if err != nil && (g.isFailure == nil || g.isFailure(err)) {
		g.breaker.RecordFailure()
		return
	}
	g.breaker.RecordSuccess()
}

// Do runs fn when the circuit allows it and records the outcome.
func (g *Guard) Do(fn func() error) error {
	if err := g.Allow(); err != nil {
		return err
	}
	err := fn()
	g.Record(err)
	return err
}

func (g *Guard) State() CircuitState {
	if g == nil || g.breaker == nil {
		return CircuitStateClosed
	}
	return g.breaker.State()
}
