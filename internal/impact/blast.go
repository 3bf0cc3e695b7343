package impact

import (
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
	"github.com/san-kum/neoshield/internal/units"
)

type BlastInput struct {
	Energy     uncertainty.Value `json:"energy"` // J
	Atmosphere Atmosphere        `json:"atmosphere"`
	// Impactor and VelocityKmS enable the breakup estimate.
	Impactor    *Impactor         `json:"impactor,omitempty"`
	VelocityKmS uncertainty.Value `json:"velocity_km_s"`
}

type Ring struct {
	Label  string            `json:"label"`
	Radius uncertainty.Value `json:"radius"` // m
}

type BlastResult struct {
	YieldKt         uncertainty.Value `json:"yield_kt"`
	FireballRadius  uncertainty.Value `json:"fireball_radius"`
	Overpressure    []Ring            `json:"overpressure"`
	Thermal         []Ring            `json:"thermal"`
	BreakupAltitude uncertainty.Value `json:"breakup_altitude"`
	Airburst        bool              `json:"airburst"`
	Validity        Validity          `json:"validity"`
}

// Reference radii in km for a 1 kt surface burst.
var overpressureRef = []struct {
	label string
	km    float64
}{
	{"20 psi", 0.28},
	{"10 psi", 0.40},
	{"5 psi", 0.60},
	{"3 psi", 0.80},
	{"1 psi", 1.80},
}

var thermalRef = []struct {
	label string
	km    float64
}{
	{"third-degree burns", 0.67},
	{"second-degree burns", 0.87},
	{"first-degree burns", 1.2},
}

func transmissivity(humidity float64) float64 {
	return math.Max(0.4, 1-0.3*humidity)
}

// Blast scales nuclear-test reference radii to the impact yield and
// corrects them for the local atmosphere.
func Blast(in BlastInput) BlastResult {
	atm := in.Atmosphere
	if atm.Pressure <= 0 {
		atm = Atmospheres["seaLevel"]
	}

	kt := uncertainty.Scale(in.Energy, 1/units.JoulesPerKilotonTNT).WithUnit("kt")
	inputs := []uncertainty.Input{uncertainty.In("energy", in.Energy)}
	yield := func(a uncertainty.Args) float64 { return a.Get("energy") / units.JoulesPerKilotonTNT }

	pressureCorr := math.Cbrt(StandardPressure / atm.Pressure)
	densityCorr := math.Cbrt(StandardDensity / atm.Density)
	tau := transmissivity(atm.Humidity)

	res := BlastResult{
		YieldKt: kt,
		FireballRadius: uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
			return 66 * math.Pow(yield(a), 0.4) * densityCorr
		}, inputs, "m"),
	}

	for _, ref := range overpressureRef {
		km := ref.km
		res.Overpressure = append(res.Overpressure, Ring{
			Label: ref.label,
			Radius: uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
				return km * 1e3 * math.Cbrt(yield(a)) * pressureCorr
			}, inputs, "m"),
		})
	}
	for _, ref := range thermalRef {
		km := ref.km
		res.Thermal = append(res.Thermal, Ring{
			Label: ref.label,
			Radius: uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
				return km * 1e3 * math.Pow(yield(a), 0.41) * tau
			}, inputs, "m"),
		})
	}

	var val validator
	val.energy(in.Energy.Value)

	if in.Impactor != nil && in.VelocityKmS.Value > 0 {
		val.velocity(in.VelocityKmS.Value)
		res.BreakupAltitude = BreakupAltitude(*in.Impactor, in.VelocityKmS, atm)
		res.Airburst = res.BreakupAltitude.Value > 0
		val.outputs([]string{"breakup altitude"}, res.BreakupAltitude)
	}

	val.outputs([]string{"fireball radius"}, res.FireballRadius)
	for _, ring := range append(append([]Ring{}, res.Overpressure...), res.Thermal...) {
		val.outputs([]string{ring.Label + " radius"}, ring.Radius)
	}

	res.Validity = val.result(
		"surface-burst scaling from nuclear test data",
		"flat terrain, no shielding",
	)
	return res
}

// BreakupAltitude is H·ln(ρ0·v²/Y), the height at which ram pressure first
// exceeds the impactor strength. Zero means the body reaches the ground
// intact.
func BreakupAltitude(imp Impactor, velocityKmS uncertainty.Value, atm Atmosphere) uncertainty.Value {
	h := atm.ScaleHeight
	if h <= 0 {
		h = 8000
	}
	rho := atm.Density
	fn := func(a uncertainty.Args) float64 {
		vel := a.Get("velocity") * 1e3
		y := a.Get("strength")
		if y <= 0 {
			return 0
		}
		return math.Max(0, h*math.Log(rho*vel*vel/y))
	}
	return uncertainty.MustPropagate(fn, []uncertainty.Input{
		uncertainty.In("velocity", velocityKmS),
		uncertainty.In("strength", imp.Strength),
	}, "m")
}
