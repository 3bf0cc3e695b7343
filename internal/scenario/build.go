package scenario

import (
	"fmt"

	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// OrbitElements converts preset elements into catalog form with their sigmas.
func OrbitElements(o *config.OrbitPreset) ephemeris.UncertainElements {
	return ephemeris.UncertainElements{
		SemiMajorAxis: uncertainty.New(o.A, o.SigmaA, "AU"),
		Eccentricity:  uncertainty.New(o.E, o.SigmaE, ""),
		Inclination:   uncertainty.New(o.I, o.SigmaI, "deg"),
		RAAN:          uncertainty.Exact(o.RAAN, "deg"),
		ArgPeriapsis:  uncertainty.Exact(o.ArgPeri, "deg"),
		MeanAnomaly:   uncertainty.Exact(o.M, "deg"),
		Epoch:         ephemeris.NewJulianDate(o.EpochJD, ephemeris.TT),
		Frame:         ephemeris.J2000Ecliptic,
	}
}

// impactInputs are the asteroid properties the impact models consume.
type impactInputs struct {
	diameter uncertainty.Value
	velocity uncertainty.Value
	angle    uncertainty.Value
	body     impact.Impactor
	target   impact.TargetMaterial
	atm      impact.Atmosphere
	massKg   float64
}

func newImpactInputs(a config.Preset) (impactInputs, error) {
	body, err := impact.GetImpactor(a.Composition)
	if err != nil {
		return impactInputs{}, err
	}
	target, err := impact.GetTargetMaterial(orDefault(a.Target, "sedimentaryRock"))
	if err != nil {
		return impactInputs{}, err
	}
	atm, err := impact.GetAtmosphere(orDefault(a.Atmosphere, "seaLevel"))
	if err != nil {
		return impactInputs{}, err
	}
	angle := a.ImpactAngleDeg
	if angle == 0 {
		angle = 45
	}
	return impactInputs{
		diameter: uncertainty.New(a.DiameterM, a.DiameterSig, "m"),
		velocity: uncertainty.New(a.VelocityKmS, a.VelocitySig, "km/s"),
		angle:    uncertainty.New(angle, a.ImpactAngleSig, "deg"),
		body:     body,
		target:   target,
		atm:      atm,
		massKg:   a.MassKg,
	}, nil
}

// mass is the explicit mass when given, else a sphere of the impactor
// density.
func (in impactInputs) mass() uncertainty.Value {
	if in.massKg > 0 {
		return uncertainty.Exact(in.massKg, "kg")
	}
	return impact.Mass(in.diameter, in.body.Density)
}

func (in impactInputs) energy() uncertainty.Value {
	if in.massKg > 0 {
		return uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
			v := a.Get("velocity") * 1e3
			return 0.5 * in.massKg * v * v
		}, []uncertainty.Input{uncertainty.In("velocity", in.velocity)}, "J")
	}
	return impact.KineticEnergy(in.diameter, in.body.Density, in.velocity)
}

// energyInputs feeds the Monte Carlo cross-check.
func (in impactInputs) energyInputs() ([]uncertainty.Input, uncertainty.Func) {
	if in.massKg > 0 {
		return []uncertainty.Input{uncertainty.In("velocity", in.velocity)}, func(a uncertainty.Args) float64 {
			v := a.Get("velocity") * 1e3
			return 0.5 * in.massKg * v * v
		}
	}
	inputs := []uncertainty.Input{
		uncertainty.In("diameter", in.diameter),
		uncertainty.In("density", in.body.Density),
		uncertainty.In("velocity", in.velocity),
	}
	return inputs, func(a uncertainty.Args) float64 {
		d, v := a.Get("diameter"), a.Get("velocity")*1e3
		m := a.Get("density") * 3.141592653589793 * d * d * d / 6
		return 0.5 * m * v * v
	}
}

type consequences struct {
	energy  uncertainty.Value
	crater  impact.CraterResult
	blast   impact.BlastResult
	seismic impact.SeismicResult
}

func (in impactInputs) consequences(distancesKm []float64) consequences {
	e := in.energy()
	body := in.body
	return consequences{
		energy: e,
		crater: impact.Crater(impact.CraterInput{
			Energy:      e,
			AngleDeg:    in.angle,
			Target:      in.target,
			VelocityKmS: in.velocity.Value,
		}),
		blast: impact.Blast(impact.BlastInput{
			Energy:      e,
			Atmosphere:  in.atm,
			Impactor:    &body,
			VelocityKmS: in.velocity,
		}),
		seismic: impact.Seismic(impact.SeismicInput{Energy: e, DistancesKm: distancesKm}),
	}
}

func deflectionTarget(a config.Preset) (deflection.Asteroid, error) {
	comp, err := deflection.GetComposition(a.Composition)
	if err != nil {
		return deflection.Asteroid{}, fmt.Errorf("deflection target: %w", err)
	}
	ast := deflection.Asteroid{
		Name:        a.Name,
		Diameter:    uncertainty.New(a.DiameterM, a.DiameterSig, "m"),
		Composition: comp,
	}
	if a.MassKg > 0 {
		ast.Mass = uncertainty.Exact(a.MassKg, "kg")
	}
	return ast, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
