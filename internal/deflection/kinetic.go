package deflection

import (
	"math"

	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// Impactor is the spacecraft of a kinetic deflection mission.
type Impactor struct {
	Mass     uncertainty.Value `json:"mass" yaml:"mass"`         // kg
	Velocity uncertainty.Value `json:"velocity" yaml:"velocity"` // km/s, relative to the asteroid
	// AngleDeg is measured from the surface normal; 0 is head-on.
	AngleDeg uncertainty.Value `json:"angle_deg" yaml:"angle_deg"`
}

type KineticInput struct {
	Asteroid Asteroid `json:"asteroid"`
	Impactor Impactor `json:"impactor"`
	// LeadTimeDays between impact and the predicted encounter.
	LeadTimeDays float64 `json:"lead_time_days,omitempty"`
}

type KineticResult struct {
	DirectMomentum      uncertainty.Value `json:"direct_momentum"` // kg m/s
	EjectaMomentum      uncertainty.Value `json:"ejecta_momentum"`
	TotalMomentum       uncertainty.Value `json:"total_momentum"`
	DeltaV              uncertainty.Value `json:"delta_v"` // m/s
	CraterDiameter      uncertainty.Value `json:"crater_diameter"`
	EjectaMass          uncertainty.Value `json:"ejecta_mass"`
	EjectaVelocity      uncertainty.Value `json:"ejecta_velocity"`
	SpecificEnergy      float64           `json:"specific_energy"` // J/kg
	AlongTrackShiftKm   float64           `json:"along_track_shift_km,omitempty"`
	Warnings            []string          `json:"warnings,omitempty"`
	WithinValidityRange bool              `json:"within_validity_range"`
}

const (
	MinBeta          = 1.0
	MaxBeta          = 6.0
	MaxObliqueDeg    = 60.0
	alongTrackFactor = 3.0
)

// Kinetic computes the momentum delivered by a kinetic impactor. The
// ejecta share is (β−1) times the direct momentum; the crater on the
// asteroid is sized to express it as an ejecta mass and mean speed.
func Kinetic(in KineticInput) KineticResult {
	ast, sc := in.Asteroid, in.Impactor
	comp := ast.Composition

	inputs := append([]uncertainty.Input{
		uncertainty.In("mass", sc.Mass),
		uncertainty.In("velocity", sc.Velocity),
		uncertainty.In("angle", sc.AngleDeg),
		uncertainty.In("beta", comp.Beta),
	}, ast.massInputs()...)

	direct := func(a uncertainty.Args) float64 {
		return a.Get("mass") * a.Get("velocity") * 1e3 * math.Cos(a.Get("angle")*math.Pi/180)
	}
	ejecta := func(a uncertainty.Args) float64 { return (a.Get("beta") - 1) * direct(a) }
	total := func(a uncertainty.Args) float64 { return a.Get("beta") * direct(a) }
	prop := func(fn uncertainty.Func, unit string) uncertainty.Value {
		return uncertainty.MustPropagate(fn, inputs, unit)
	}

	res := KineticResult{
		DirectMomentum: prop(direct, "kg m/s"),
		EjectaMomentum: prop(ejecta, "kg m/s"),
		TotalMomentum:  prop(total, "kg m/s"),
		DeltaV: prop(func(a uncertainty.Args) float64 {
			return total(a) / ast.massFrom(a)
		}, "m/s"),
	}

	energy := uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
		vel := a.Get("velocity") * 1e3
		return 0.5 * a.Get("mass") * vel * vel
	}, inputs[:2], "J")

	crater := impact.Crater(impact.CraterInput{
		Energy:   energy,
		AngleDeg: uncertainty.Sub(uncertainty.Exact(90, "deg"), sc.AngleDeg),
		Target:   ast.surface(),
		Gravity:  ast.SurfaceGravity(),
	})
	res.CraterDiameter = crater.FinalDiameter
	res.EjectaMass = uncertainty.Mul(crater.EjectaVolume, comp.Density, "kg")
	if res.EjectaMass.Value > 0 {
		res.EjectaVelocity = uncertainty.Div(res.EjectaMomentum, res.EjectaMass, "m/s")
	}

	targetMass := ast.MassValue().Value
	res.SpecificEnergy = energy.Value / targetMass
	if in.LeadTimeDays > 0 {
		res.AlongTrackShiftKm = alongTrackFactor * res.DeltaV.Value * in.LeadTimeDays * SecondsPerDay / 1e3
	}

	var w warnings
	if b := comp.Beta.Value; b < MinBeta || b > MaxBeta {
		w.add("β factor %.2f outside [%.0f, %.0f]", b, MinBeta, MaxBeta)
	}
	if comp.DisruptionThreshold > 0 && res.SpecificEnergy > comp.DisruptionThreshold {
		w.add("specific impact energy %.3g J/kg exceeds disruption threshold %.3g J/kg", res.SpecificEnergy, comp.DisruptionThreshold)
	}
	if sc.AngleDeg.Value > MaxObliqueDeg {
		w.add("oblique impact at %.0f° from normal reduces momentum transfer", sc.AngleDeg.Value)
	}
	w.finite("total momentum", res.TotalMomentum)
	w.finite("Δv", res.DeltaV)
	res.Warnings = w
	res.WithinValidityRange = len(w) == 0
	return res
}
