package scenario

import (
	"time"

	"github.com/san-kum/neoshield/internal/approach"
	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// Report bundles every result of one scenario run.
type Report struct {
	ID          string        `json:"id"`
	Scenario    string        `json:"scenario"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Duration    time.Duration `json:"duration_ns"`

	Mass        uncertainty.Value     `json:"mass"`
	Energy      uncertainty.Value     `json:"energy"`
	EnergyMt    uncertainty.Value     `json:"energy_mt"`
	EnergyMC    *uncertainty.MCResult `json:"energy_monte_carlo,omitempty"`
	TorinoScale int                   `json:"torino_scale"`
	// PalermoScale is only set when an impact probability is known.
	PalermoScale *float64 `json:"palermo_scale,omitempty"`
	Probability  float64  `json:"impact_probability"`

	Elements     *ephemeris.Elements   `json:"elements,omitempty"`
	InitialState *ephemeris.State      `json:"initial_state,omitempty"`
	MOID         *approach.MOIDResult  `json:"moid,omitempty"`
	Hazard       *approach.Hazard      `json:"hazard,omitempty"`
	Approaches   *approach.ScanResult  `json:"approaches,omitempty"`
	Propagation  *PropagationSummary   `json:"propagation,omitempty"`
	Crater       *impact.CraterResult  `json:"crater,omitempty"`
	Blast        *impact.BlastResult   `json:"blast,omitempty"`
	Seismic      *impact.SeismicResult `json:"seismic,omitempty"`

	Kinetic   *deflection.KineticResult `json:"kinetic,omitempty"`
	Nuclear   *deflection.NuclearResult `json:"nuclear,omitempty"`
	Solar     *deflection.SolarResult   `json:"solar,omitempty"`
	Deflected *DeflectedOrbit           `json:"deflected,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

type PropagationSummary struct {
	Integrator         string  `json:"integrator"`
	DurationDays       float64 `json:"duration_days"`
	Steps              int     `json:"steps"`
	EnergyDrift        float64 `json:"energy_drift"`
	MinEarthDistanceAU float64 `json:"min_earth_distance_au"`
	MinEarthJD         float64 `json:"min_earth_jd"`
	// MeanSemiMajorAxisAU follows from the mean specific orbital energy;
	// zero for unbound orbits.
	MeanSemiMajorAxisAU float64 `json:"mean_semi_major_axis_au,omitempty"`
	// KeplerDeviationKm compares the final state with the unperturbed orbit.
	KeplerDeviationKm float64 `json:"kepler_deviation_km"`
	// DominantPeriodDays is the strongest cycle in the Earth distance
	// series; zero when the series is too short or flat.
	DominantPeriodDays float64 `json:"dominant_period_days,omitempty"`
	// DispersionKm is the end-state spread when a is shifted by ±1σ.
	DispersionKm float64   `json:"dispersion_km,omitempty"`
	Times        []float64 `json:"times"` // days after epoch
	DistancesAU  []float64 `json:"distances_au"`
}

type DeflectedOrbit struct {
	Strategy     string              `json:"strategy"`
	DeltaV       deflection.RTN      `json:"delta_v"`
	Elements     ephemeris.Elements  `json:"elements"`
	MOID         approach.MOIDResult `json:"moid"`
	MOIDChangeKm float64             `json:"moid_change_km"`
}

// AllWarnings collects warnings across all sections.
func (r *Report) AllWarnings() []string {
	out := append([]string(nil), r.Warnings...)
	if r.Crater != nil {
		out = append(out, r.Crater.Validity.Warnings...)
	}
	if r.Blast != nil {
		out = append(out, r.Blast.Validity.Warnings...)
	}
	if r.Seismic != nil {
		out = append(out, r.Seismic.Validity.Warnings...)
	}
	if r.Approaches != nil {
		out = append(out, r.Approaches.Warnings...)
	}
	if r.Kinetic != nil {
		out = append(out, r.Kinetic.Warnings...)
	}
	if r.Nuclear != nil {
		out = append(out, r.Nuclear.Warnings...)
	}
	if r.Solar != nil {
		out = append(out, r.Solar.Warnings...)
	}
	return out
}

func (r *Report) WarningCount() int { return len(r.AllWarnings()) }
