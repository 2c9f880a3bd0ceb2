package infrastructure_test

import (
	"context"
	"testing"
	"time"

	"github.com/tenderwright/tenderwright/internal/config"
	"github.com/tenderwright/tenderwright/internal/infrastructure"
	"github.com/tenderwright/tenderwright/internal/rfp"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Artifacts.Dir = t.TempDir()
	return cfg
}

func TestNewWithMemoryBackend(t *testing.T) {
	infra, err := infrastructure.New(testConfig(t))
	if err != nil {
		t.Fatalf("infrastructure.New: %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil {
		t.Fatal("lifecycle or logger not initialized")
	}
	if infra.Sessions == nil || infra.Artifacts == nil || infra.Provider == nil {
		t.Fatal("core systems not initialized")
	}
}

func TestNewRejectsUnknownSessionsBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sessions.Backend = "filesystem"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Error("expected error for unknown sessions backend")
	}
}

func TestStartAndShutdown(t *testing.T) {
	cfg := testConfig(t)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New: %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle not ready after startup")
	}

	// Session store usable after startup.
	id, err := infra.Sessions.Create(context.Background(), rfp.FlowState{})
	if err != nil {
		t.Fatalf("sessions.Create: %v", err)
	}
	if _, err := infra.Sessions.Get(context.Background(), id); err != nil {
		t.Errorf("sessions.Get: %v", err)
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
