package observability

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/config"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		ServiceName:    "matchday-alerts",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
		UptraceEnabled: true,
	}
	telemetry, err := Start(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start telemetry: %v", err)
	}
	if got := telemetry.Enabled(); len(got) != 0 {
		t.Fatalf("expected nothing enabled without a dsn, got %v", got)
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown telemetry: %v", err)
	}

	var nilTelemetry *Telemetry
	if err := nilTelemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil shutdown: %v", err)
	}
}

func TestStart_PprofServesAndStops(t *testing.T) {
	t.Parallel()

	telemetry, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start telemetry: %v", err)
	}
	if got := telemetry.Enabled(); len(got) != 1 || got[0] != "pprof" {
		t.Fatalf("unexpected components: %v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := telemetry.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown telemetry: %v", err)
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown should be a no-op: %v", err)
	}
}

func TestStart_PprofPortTaken(t *testing.T) {
	t.Parallel()

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	if _, err := Start(config.Config{PprofEnabled: true, PprofAddr: taken.Addr().String()}, logging.NewNop()); err == nil {
		t.Fatalf("expected bind error")
	}
}
