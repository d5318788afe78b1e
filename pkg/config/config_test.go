package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Model.LeagueAvgEfficiency != 113.5 {
		t.Fatalf("league avg = %v", cfg.Model.LeagueAvgEfficiency)
	}
	if cfg.Sizing.KellyMultiplier != 0.5 || cfg.Sizing.MaxBankrollFraction != 0.03 {
		t.Fatalf("sizing = %+v", cfg.Sizing)
	}
	if cfg.Workflow.Fanout != 4 {
		t.Fatalf("fanout = %d", cfg.Workflow.Fanout)
	}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
http_addr: ":9090"
model:
  league_avg_efficiency: 112.0
  rotation_size: 8
workflow:
  fanout: 2
  analyze_interval: 15m
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.Model.LeagueAvgEfficiency != 112.0 || cfg.Model.RotationSize != 8 {
		t.Fatalf("model = %+v", cfg.Model)
	}
	if cfg.Workflow.Fanout != 2 || cfg.Workflow.AnalyzeInterval.Std() != 15*time.Minute {
		t.Fatalf("workflow = %+v", cfg.Workflow)
	}
	// Untouched fields keep their defaults.
	if cfg.Sizing.MaxBankrollFraction != 0.03 {
		t.Fatalf("sizing = %+v", cfg.Sizing)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COURTSIDE_HTTP_ADDR", ":7070")
	t.Setenv("NBA_API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.NBAAPIKey != "test-key" {
		t.Fatalf("api key = %q", cfg.NBAAPIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Sizing.KellyMultiplier = 1.5
	if err := cfg.validate(); err == nil {
		t.Fatal("expected kelly multiplier error")
	}

	cfg = Default()
	cfg.Workflow.Fanout = 0
	if err := cfg.validate(); err == nil {
		t.Fatal("expected fanout error")
	}
}
