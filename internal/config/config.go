// Package config holds engine settings loaded from YAML and the
// environment, plus named asteroid presets.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator          = "rk4"
	DefaultStepDays            = 1.0
	DefaultMaxDistanceAU       = 0.05
	DefaultRefineToleranceDays = 0.01
	DefaultRefineIterations    = 50
	DefaultKeplerTolerance     = 1e-12
	DefaultKeplerIterations    = 100
	DefaultMOIDResolutionDeg   = 1.0
	DefaultMOIDIterations      = 2000
	DefaultMonteCarloSamples   = 0
	DefaultSeed                = 42
	DefaultDataDir             = ".neoshield"
	EnvPrefix                  = "NEOSHIELD_"
)

var ErrInvalidConfig = errors.New("invalid config")

// Integrators lists the integrator names the scenario runner accepts.
var Integrators = []string{"euler", "rk4", "rk45", "verlet", "leapfrog"}

type Config struct {
	Integrator string         `yaml:"integrator" env:"INTEGRATOR"`
	Kepler     KeplerConfig   `yaml:"kepler" envPrefix:"KEPLER_"`
	Approach   ApproachConfig `yaml:"approach" envPrefix:"APPROACH_"`
	MOID       MOIDConfig     `yaml:"moid" envPrefix:"MOID_"`
	// MonteCarloSamples > 0 adds a sampled cross-check of the impact energy.
	MonteCarloSamples int       `yaml:"monte_carlo_samples" env:"MONTE_CARLO_SAMPLES"`
	Seed              int64     `yaml:"seed" env:"SEED"`
	Workers           int       `yaml:"workers" env:"WORKERS"`
	DataDir           string    `yaml:"data_dir" env:"DATA_DIR"`
	Log               LogConfig `yaml:"log" envPrefix:"LOG_"`
}

type KeplerConfig struct {
	Tolerance     float64 `yaml:"tolerance" env:"TOLERANCE"`
	MaxIterations int     `yaml:"max_iterations" env:"MAX_ITERATIONS"`
}

type ApproachConfig struct {
	StepDays            float64 `yaml:"step_days" env:"STEP_DAYS"`
	MaxDistanceAU       float64 `yaml:"max_distance_au" env:"MAX_DISTANCE_AU"`
	RefineToleranceDays float64 `yaml:"refine_tolerance_days" env:"REFINE_TOLERANCE_DAYS"`
	MaxRefineIterations int     `yaml:"max_refine_iterations" env:"MAX_REFINE_ITERATIONS"`
}

type MOIDConfig struct {
	ResolutionDeg float64 `yaml:"resolution_deg" env:"RESOLUTION_DEG"`
	MaxIterations int     `yaml:"max_iterations" env:"MAX_ITERATIONS"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Kepler: KeplerConfig{
			Tolerance:     DefaultKeplerTolerance,
			MaxIterations: DefaultKeplerIterations,
		},
		Approach: ApproachConfig{
			StepDays:            DefaultStepDays,
			MaxDistanceAU:       DefaultMaxDistanceAU,
			RefineToleranceDays: DefaultRefineToleranceDays,
			MaxRefineIterations: DefaultRefineIterations,
		},
		MOID: MOIDConfig{
			ResolutionDeg: DefaultMOIDResolutionDeg,
			MaxIterations: DefaultMOIDIterations,
		},
		MonteCarloSamples: DefaultMonteCarloSamples,
		Seed:              DefaultSeed,
		DataDir:           DefaultDataDir,
		Log:               LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. An empty path skips the file.
// Environment variables are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays NEOSHIELD_* environment variables. Unset variables
// leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	check(slices.Contains(Integrators, c.Integrator), "unknown integrator %q", c.Integrator)
	check(c.Kepler.Tolerance > 0, "kepler.tolerance must be positive, got %g", c.Kepler.Tolerance)
	check(c.Kepler.MaxIterations > 0, "kepler.max_iterations must be positive, got %d", c.Kepler.MaxIterations)
	check(c.Approach.StepDays > 0, "approach.step_days must be positive, got %g", c.Approach.StepDays)
	check(c.Approach.MaxDistanceAU > 0, "approach.max_distance_au must be positive, got %g", c.Approach.MaxDistanceAU)
	check(c.Approach.RefineToleranceDays > 0, "approach.refine_tolerance_days must be positive, got %g", c.Approach.RefineToleranceDays)
	check(c.Approach.MaxRefineIterations > 0, "approach.max_refine_iterations must be positive, got %d", c.Approach.MaxRefineIterations)
	check(c.MOID.ResolutionDeg > 0 && c.MOID.ResolutionDeg <= 90, "moid.resolution_deg must be in (0, 90], got %g", c.MOID.ResolutionDeg)
	check(c.MOID.MaxIterations > 0, "moid.max_iterations must be positive, got %d", c.MOID.MaxIterations)
	check(c.MonteCarloSamples >= 0, "monte_carlo_samples must not be negative, got %d", c.MonteCarloSamples)
	check(c.Workers >= 0, "workers must not be negative, got %d", c.Workers)
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		check(false, "log.format %q is not one of text, json", c.Log.Format)
	}
	return errors.Join(errs...)
}
