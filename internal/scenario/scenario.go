// Package scenario turns asteroid scenario files into full threat
// reports: orbit geometry, impact consequences and deflection options.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/neoshield/internal/config"
)

// Analysis names.
const (
	Energy      = "energy"
	MOID        = "moid"
	Approaches  = "approaches"
	Propagation = "propagation"
	Crater      = "crater"
	Blast       = "blast"
	Seismic     = "seismic"
	Kinetic     = "kinetic"
	Nuclear     = "nuclear"
	Solar       = "solar"
)

var AllAnalyses = []string{Energy, MOID, Approaches, Propagation, Crater, Blast, Seismic, Kinetic, Nuclear, Solar}

var (
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrUnknownAnalysis = errors.New("unknown analysis")
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Scenario is one asteroid and the analyses to run on it.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Preset names a config preset the rest of the file overrides.
	Preset      string           `yaml:"preset,omitempty"`
	Asteroid    config.Preset    `yaml:"asteroid"`
	Analyses    []string         `yaml:"analyses,omitempty"`
	Approaches  ApproachSpec     `yaml:"approaches,omitempty"`
	Impact      ImpactSpec       `yaml:"impact,omitempty"`
	Deflection  DeflectionSpec   `yaml:"deflection,omitempty"`
	Propagation *PropagationSpec `yaml:"propagation,omitempty"`
}

type ApproachSpec struct {
	// StartJD defaults to the orbit epoch, SpanDays to ten years.
	StartJD  float64 `yaml:"start_jd,omitempty"`
	SpanDays float64 `yaml:"span_days,omitempty"`
}

type ImpactSpec struct {
	// Probability overrides the one derived from the closest approach.
	Probability        float64   `yaml:"probability,omitempty"`
	YearsToImpact      float64   `yaml:"years_to_impact,omitempty"`
	SeismicDistancesKm []float64 `yaml:"seismic_distances_km,omitempty"`
}

type KineticSpec struct {
	MassKg       float64 `yaml:"mass_kg"`
	VelocityKmS  float64 `yaml:"velocity_km_s"`
	AngleDeg     float64 `yaml:"angle_deg,omitempty"`
	LeadTimeDays float64 `yaml:"lead_time_days,omitempty"`
}

type NuclearSpec struct {
	Device    string  `yaml:"device"`
	StandoffM float64 `yaml:"standoff_m,omitempty"`
}

type SolarSpec struct {
	Method        string  `yaml:"method"`
	Sail          string  `yaml:"sail,omitempty"`
	DistanceAU    float64 `yaml:"distance_au,omitempty"`
	DurationYears float64 `yaml:"duration_years"`
	ConeDeg       float64 `yaml:"cone_deg,omitempty"`
	ClockDeg      float64 `yaml:"clock_deg,omitempty"`
	AlbedoDelta   float64 `yaml:"albedo_delta,omitempty"`
}

type DeflectionSpec struct {
	Kinetic *KineticSpec `yaml:"kinetic,omitempty"`
	Nuclear *NuclearSpec `yaml:"nuclear,omitempty"`
	Solar   *SolarSpec   `yaml:"solar,omitempty"`
	// Apply names the strategy whose Δv is applied to the orbit before
	// MOID is recomputed.
	Apply string `yaml:"apply,omitempty"`
}

type PropagationSpec struct {
	DurationDays float64 `yaml:"duration_days"`
	StepDays     float64 `yaml:"step_days,omitempty"`
}

// FromPreset builds a scenario running every applicable analysis on a
// named preset.
func FromPreset(name string) (*Scenario, error) {
	p := config.GetPreset(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return &Scenario{Name: name, Description: p.Description, Preset: name, Asteroid: *p}, nil
}

// Parse decodes a scenario document. Fields it leaves out keep the
// values of the referenced preset.
func Parse(data []byte) (*Scenario, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	sc := &Scenario{}
	if head.Preset != "" {
		base, err := FromPreset(head.Preset)
		if err != nil {
			return nil, err
		}
		sc = base
	}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	a := s.Asteroid
	if a.DiameterM <= 0 {
		return fmt.Errorf("%w: diameter must be positive", ErrInvalidScenario)
	}
	if a.VelocityKmS <= 0 {
		return fmt.Errorf("%w: velocity must be positive", ErrInvalidScenario)
	}
	if a.Composition == "" {
		return fmt.Errorf("%w: composition is required", ErrInvalidScenario)
	}
	for _, name := range s.Analyses {
		if !slices.Contains(AllAnalyses, name) {
			return fmt.Errorf("%w: %s", ErrUnknownAnalysis, name)
		}
	}
	switch s.Deflection.Apply {
	case "", Kinetic, Nuclear, Solar:
	default:
		return fmt.Errorf("%w: cannot apply %q", ErrInvalidScenario, s.Deflection.Apply)
	}
	return nil
}

// Enabled reports whether the analysis will run. With no explicit list,
// every analysis whose inputs are present runs.
func (s *Scenario) Enabled(name string) bool {
	if len(s.Analyses) > 0 {
		return slices.Contains(s.Analyses, name)
	}
	switch name {
	case MOID, Approaches:
		return s.Asteroid.Orbit != nil
	case Propagation:
		return s.Asteroid.Orbit != nil && s.Propagation != nil
	case Kinetic:
		return s.Deflection.Kinetic != nil
	case Nuclear:
		return s.Deflection.Nuclear != nil
	case Solar:
		return s.Deflection.Solar != nil
	}
	return true
}
