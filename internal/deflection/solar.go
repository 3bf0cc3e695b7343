package deflection

import (
	"math"

	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
	"github.com/san-kum/neoshield/internal/units"
)

type SolarMethod string

const (
	FlatSail           SolarMethod = "flatSail"
	ParabolicSail      SolarMethod = "parabolicSail"
	HeliogyroSail      SolarMethod = "heliogyroSail"
	AlbedoChange       SolarMethod = "albedoChange"
	ConcentratedMirror SolarMethod = "concentratedMirror"
	AlbedoModification SolarMethod = "albedoModification"
)

var SolarMethods = []SolarMethod{FlatSail, ParabolicSail, HeliogyroSail, AlbedoChange, ConcentratedMirror, AlbedoModification}

func ParseSolarMethod(s string) (SolarMethod, error) {
	for _, m := range SolarMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &impact.UnknownKeyError{Kind: "solar method", Key: s}
}

func (m SolarMethod) usesSail() bool {
	return m == FlatSail || m == ParabolicSail || m == HeliogyroSail || m == ConcentratedMirror
}

var defaultSails = map[SolarMethod]string{
	FlatSail:           "flat",
	ParabolicSail:      "parabolic",
	HeliogyroSail:      "heliogyro",
	ConcentratedMirror: "parabolic",
}

// DefaultSail is the collector a sail or mirror method uses when none is
// named. Surface methods have none.
func DefaultSail(m SolarMethod) (SolarSail, bool) {
	name, ok := defaultSails[m]
	if !ok {
		return SolarSail{}, false
	}
	return Sails[name], true
}

// Hardware lifetime for the methods that carry no sail.
var surfaceLifetimeYears = map[SolarMethod]float64{
	AlbedoChange:       50,
	AlbedoModification: 50,
}

const (
	MaxSailArea       = 1e6 // m²
	MinSolarDistance  = 0.3 // AU
	mirrorAblationEff = 0.1
	// Yarkovsky recoil coefficient for an isotropic re-emitting sphere.
	yarkovskyFactor = 4.0 / 9
)

type SolarInput struct {
	Asteroid Asteroid    `json:"asteroid"`
	Method   SolarMethod `json:"method"`
	// Sail is the collector for sail and mirror methods.
	Sail        SolarSail `json:"sail"`
	DistanceAU  float64   `json:"distance_au"`
	DurationYrs float64   `json:"duration_years"`
	// ConeDeg and ClockDeg orient the force: cone from the Sun line,
	// clock around it from the orbital plane.
	ConeDeg  float64 `json:"cone_deg,omitempty"`
	ClockDeg float64 `json:"clock_deg,omitempty"`
	// AlbedoDelta is the albedo change for the surface methods.
	AlbedoDelta uncertainty.Value `json:"albedo_delta"`
}

type SolarResult struct {
	Pressure            float64           `json:"pressure"` // N/m²
	Force               uncertainty.Value `json:"force"`    // N
	Radial              float64           `json:"radial"`
	Tangential          float64           `json:"tangential"`
	Normal              float64           `json:"normal"`
	EffectiveYears      float64           `json:"effective_years"`
	DeltaV              uncertainty.Value `json:"delta_v"` // m/s
	DeltaVRTN           RTN               `json:"delta_v_rtn"`
	DeltaA              float64           `json:"delta_a"` // m
	DeltaE              float64           `json:"delta_e"`
	DeltaI              float64           `json:"delta_i"` // rad
	AlongTrackDriftKm   float64           `json:"along_track_drift_km"`
	Warnings            []string          `json:"warnings,omitempty"`
	WithinValidityRange bool              `json:"within_validity_range"`
}

// RadiationPressure at distance r (AU) for a perfect absorber, in N/m².
func RadiationPressure(rAU float64) float64 {
	return SolarConstant / SpeedOfLight / (rAU * rAU)
}

func (m SolarMethod) force(in SolarInput, p float64, a uncertainty.Args) float64 {
	cone := in.ConeDeg * math.Pi / 180
	r := in.Asteroid.Radius()
	switch m {
	case FlatSail, HeliogyroSail:
		c := math.Cos(cone)
		return p * a.Get("area") * (1 + a.Get("reflectivity")) * c * c * in.Sail.Efficiency
	case ParabolicSail:
		return p * a.Get("area") * (1 + a.Get("reflectivity")) * math.Cos(cone) * in.Sail.Efficiency
	case ConcentratedMirror:
		power := p * SpeedOfLight * a.Get("area") * a.Get("reflectivity") * in.Sail.Efficiency
		return power * math.Sqrt(2*mirrorAblationEff/a.Get("qvap"))
	case AlbedoChange:
		return p * math.Pi * r * r * a.Get("albedo")
	case AlbedoModification:
		return yarkovskyFactor * p * math.Pi * r * r * a.Get("albedo")
	}
	return 0
}

// direction splits a unit force into radial, tangential and normal parts.
func (m SolarMethod) direction(in SolarInput) (float64, float64, float64) {
	switch m {
	case AlbedoChange, ConcentratedMirror:
		return 1, 0, 0
	case AlbedoModification:
		return 0, 1, 0
	}
	cone := in.ConeDeg * math.Pi / 180
	clock := in.ClockDeg * math.Pi / 180
	return math.Cos(cone), math.Sin(cone) * math.Cos(clock), math.Sin(cone) * math.Sin(clock)
}

// Solar integrates a solar-radiation deflection over the mission. The
// force acts for the shorter of the mission duration and the hardware
// lifetime.
func Solar(in SolarInput) (SolarResult, error) {
	if _, err := ParseSolarMethod(string(in.Method)); err != nil {
		return SolarResult{}, err
	}
	ast := in.Asteroid
	rAU := in.DistanceAU
	if rAU <= 0 {
		rAU = 1
	}
	p := RadiationPressure(rAU)

	inputs := append([]uncertainty.Input{
		uncertainty.In("area", in.Sail.Area),
		uncertainty.In("reflectivity", in.Sail.Reflectivity),
		uncertainty.In("albedo", in.AlbedoDelta),
		uncertainty.In("qvap", ast.Composition.VaporizationEnergy),
	}, ast.massInputs()...)

	lifetime := in.Sail.LifetimeYears
	if !in.Method.usesSail() {
		lifetime = surfaceLifetimeYears[in.Method]
	}
	eff := in.DurationYrs
	if lifetime > 0 && eff > lifetime {
		eff = lifetime
	}
	t := eff * SecondsPerYr

	res := SolarResult{
		Pressure:       p,
		EffectiveYears: eff,
		Force: uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
			return in.Method.force(in, p, a)
		}, inputs, "N"),
		DeltaV: uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
			return in.Method.force(in, p, a) / ast.massFrom(a) * t
		}, inputs, "m/s"),
	}
	ur, ut, un := in.Method.direction(in)
	f := res.Force.Value
	res.Radial, res.Tangential, res.Normal = f*ur, f*ut, f*un

	dv := res.DeltaV.Value
	res.DeltaVRTN = RTN{Radial: dv * ur, Transverse: dv * ut, Normal: dv * un}

	// Coarse secular drift on a circular orbit at the current distance.
	aM := rAU * units.AU
	vCirc := math.Sqrt(ephemeris.MuSunSI / aM)
	n := vCirc / aM
	res.DeltaA = 2 * res.DeltaVRTN.Transverse / n
	res.DeltaE = 2 * res.DeltaVRTN.Transverse / vCirc
	res.DeltaI = res.DeltaVRTN.Normal / vCirc
	accT := res.Tangential / ast.MassValue().Value
	res.AlongTrackDriftKm = 0.5 * 3 * accT * t * t / 1e3

	var w warnings
	if in.Method.usesSail() && in.Sail.Area.Value > MaxSailArea {
		w.add("collector area %.3g m² exceeds %.0e m²", in.Sail.Area.Value, MaxSailArea)
	}
	if rAU < MinSolarDistance {
		w.add("solar distance %.2f AU below %.1f AU", rAU, MinSolarDistance)
	}
	if lifetime > 0 && in.DurationYrs > lifetime {
		w.add("mission duration %.1f yr exceeds hardware lifetime %.1f yr", in.DurationYrs, lifetime)
	}
	w.finite("force", res.Force)
	w.finite("Δv", res.DeltaV)
	if math.IsNaN(res.DeltaA) || math.IsInf(res.DeltaA, 0) {
		w.add("non-finite Δa")
	}
	res.Warnings = w
	res.WithinValidityRange = len(w) == 0
	return res, nil
}
