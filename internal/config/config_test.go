package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Approach.StepDays != 1 || cfg.Approach.MaxDistanceAU != 0.05 {
		t.Errorf("unexpected approach defaults %+v", cfg.Approach)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Approach.StepDays = 0 }},
		{"negative tolerance", func(c *Config) { c.Kepler.Tolerance = -1 }},
		{"zero max distance", func(c *Config) { c.Approach.MaxDistanceAU = 0 }},
		{"coarse moid grid", func(c *Config) { c.MOID.ResolutionDeg = 120 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "magic" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neoshield.yaml")
	cfg := DefaultConfig()
	cfg.Integrator = "rk45"
	cfg.MOID.ResolutionDeg = 0.5
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Integrator != "rk45" || loaded.MOID.ResolutionDeg != 0.5 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("approach:\n  step_days: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Approach.StepDays != 0.5 {
		t.Errorf("expected step 0.5, got %g", cfg.Approach.StepDays)
	}
	if cfg.Approach.MaxDistanceAU != DefaultMaxDistanceAU || cfg.Kepler.MaxIterations != DefaultKeplerIterations {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("integrator: euler\nmoid:\n  resolution_deg: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEOSHIELD_INTEGRATOR", "verlet")
	t.Setenv("NEOSHIELD_KEPLER_MAX_ITERATIONS", "250")
	t.Setenv("NEOSHIELD_LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Integrator != "verlet" {
		t.Errorf("env should override file, got %s", cfg.Integrator)
	}
	if cfg.Kepler.MaxIterations != 250 || cfg.Log.Format != "json" {
		t.Errorf("nested env values not applied: %+v", cfg)
	}
	if cfg.MOID.ResolutionDeg != 2 {
		t.Errorf("file value should survive without env, got %g", cfg.MOID.ResolutionDeg)
	}
}

func TestEnvOverlayRejectsGarbage(t *testing.T) {
	t.Setenv("NEOSHIELD_WORKERS", "many")
	if _, err := Load(""); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("apophis")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Orbit == nil || p.Orbit.A != 0.9224 {
		t.Errorf("unexpected orbit %+v", p.Orbit)
	}

	p.Orbit.A = 5
	if Presets["apophis"].Orbit.A != 0.9224 {
		t.Error("GetPreset must return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 7 {
		t.Fatalf("expected 7 presets, got %v", names)
	}
	if names[0] != "apophis" || names[len(names)-1] != "tunguska" {
		t.Errorf("presets not sorted: %v", names)
	}
	for _, name := range names {
		p := Presets[name]
		if p.DiameterM <= 0 || p.VelocityKmS <= 0 || p.Composition == "" || p.Target == "" {
			t.Errorf("%s: incomplete preset %+v", name, p)
		}
	}
}
