package config_test

import (
	"errors"
	"testing"

	"github.com/softvask/followup/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PIPEDRIVE_API_TOKEN", "secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.PipedriveBase != "https://api.pipedrive.com/v1" {
		t.Errorf("PipedriveBase = %q, want the Pipedrive default", cfg.PipedriveBase)
	}
	if cfg.SweepParallel != 8 {
		t.Errorf("SweepParallel = %d, want 8", cfg.SweepParallel)
	}
	if cfg.WorkerQueue != 64 {
		t.Errorf("WorkerQueue = %d, want 64", cfg.WorkerQueue)
	}
	if cfg.AuthToken != "" {
		t.Errorf("AuthToken = %q, want empty", cfg.AuthToken)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FOLLOWUP_ADDR", ":9090")
	t.Setenv("PIPEDRIVE_BASE", "http://localhost:7777/v1")
	t.Setenv("PIPEDRIVE_API_TOKEN", "secret")
	t.Setenv("FOLLOWUP_AUTH_TOKEN", "sweep-secret")
	t.Setenv("FOLLOWUP_SWEEP_PARALLEL", "2")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":9090")
	}
	if cfg.PipedriveBase != "http://localhost:7777/v1" {
		t.Errorf("PipedriveBase = %q, want override", cfg.PipedriveBase)
	}
	if cfg.AuthToken != "sweep-secret" {
		t.Errorf("AuthToken = %q, want %q", cfg.AuthToken, "sweep-secret")
	}
	if cfg.SweepParallel != 2 {
		t.Errorf("SweepParallel = %d, want 2", cfg.SweepParallel)
	}
}

func TestLoadRequiresAPIToken(t *testing.T) {
	t.Setenv("PIPEDRIVE_API_TOKEN", "")

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingAPIToken) {
		t.Fatalf("err = %v, want ErrMissingAPIToken", err)
	}
}
