package deflection

import (
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

const (
	G             = 6.674e-11
	SpeedOfLight  = 299792458.0
	SolarConstant = 1361.0 // W/m² at 1 AU
	SecondsPerDay = 86400.0
	SecondsPerYr  = 365.25 * SecondsPerDay
)

// Asteroid is the deflection target. A zero Mass is derived from the
// diameter and the composition density.
type Asteroid struct {
	Name        string            `json:"name" yaml:"name"`
	Diameter    uncertainty.Value `json:"diameter" yaml:"diameter"` // m
	Mass        uncertainty.Value `json:"mass" yaml:"mass"`         // kg
	Composition Composition       `json:"composition" yaml:"composition"`
}

func (a Asteroid) MassValue() uncertainty.Value {
	if a.Mass.Value > 0 {
		return a.Mass
	}
	return impact.Mass(a.Diameter, a.Composition.Density)
}

func (a Asteroid) Radius() float64 { return a.Diameter.Value / 2 }

func (a Asteroid) SurfaceGravity() float64 {
	r := a.Radius()
	return G * a.MassValue().Value / (r * r)
}

func (a Asteroid) EscapeVelocity() float64 {
	return math.Sqrt(2 * G * a.MassValue().Value / a.Radius())
}

// BindingEnergy of a uniform sphere, 3GM²/5R.
func (a Asteroid) BindingEnergy() float64 {
	m := a.MassValue().Value
	return 3 * G * m * m / (5 * a.Radius())
}

// massInputs lets a propagated function recover the asteroid mass from
// either an explicit mass or diameter and density.
func (a Asteroid) massInputs() []uncertainty.Input {
	if a.Mass.Value > 0 {
		return []uncertainty.Input{uncertainty.In("target_mass", a.Mass)}
	}
	return []uncertainty.Input{
		uncertainty.In("target_diameter", a.Diameter),
		uncertainty.In("target_density", a.Composition.Density),
	}
}

func (a Asteroid) massFrom(args uncertainty.Args) float64 {
	if a.Mass.Value > 0 {
		return args.Get("target_mass")
	}
	d := args.Get("target_diameter")
	return args.Get("target_density") * math.Pi * d * d * d / 6
}

// surface describes the asteroid regolith as a cratering target.
func (a Asteroid) surface() impact.TargetMaterial {
	c := a.Composition
	return impact.TargetMaterial{
		Name:            c.Name,
		Density:         c.Density,
		Strength:        c.Strength,
		Coupling:        uncertainty.New(1.0, 0.1, ""),
		SimpleToComplex: 1e6,
	}
}

type warnings []string

func (w *warnings) add(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func (w *warnings) finite(name string, v uncertainty.Value) {
	if !v.IsFinite() {
		w.add("non-finite %s", name)
	}
}
