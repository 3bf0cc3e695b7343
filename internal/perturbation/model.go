package perturbation

import (
	"context"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/integrators"
	"github.com/san-kum/neoshield/internal/metrics"
	"github.com/san-kum/neoshield/internal/sim"
)

// Model is point-mass gravity of the central body plus a set of
// perturbing contributors. It implements dynamo.System over the state
// [x, y, z, vx, vy, vz].
type Model struct {
	Mu           float64
	BodyRadius   float64
	Contributors []Contributor
}

type Total struct {
	Acceleration dynamo.Vec3    `json:"acceleration"`
	Central      dynamo.Vec3    `json:"central"`
	Breakdown    []Contribution `json:"breakdown"`
}

func (m *Model) central(r dynamo.Vec3) dynamo.Vec3 {
	rn := r.Norm()
	if rn == 0 {
		return dynamo.Vec3{}
	}
	return r.Scale(-m.Mu / (rn * rn * rn))
}

// Total returns the perturbing acceleration and its per-contributor
// breakdown. Central gravity is reported separately.
func (m *Model) Total(x dynamo.State, t float64) Total {
	out := Total{
		Central:   m.central(x.Position()),
		Breakdown: make([]Contribution, 0, len(m.Contributors)),
	}
	for _, c := range m.Contributors {
		con := c.Acceleration(x, t)
		out.Acceleration = out.Acceleration.Add(con.Acceleration)
		out.Breakdown = append(out.Breakdown, con)
	}
	return out
}

func (m *Model) StateDim() int { return 6 }

func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	a := m.central(x.Position())
	for _, c := range m.Contributors {
		a = a.Add(c.Acceleration(x, t).Acceleration)
	}
	return dynamo.State{x[3], x[4], x[5], a.X, a.Y, a.Z}
}

// Energy is the two-body specific energy, used to report drift.
func (m *Model) Energy(x dynamo.State) float64 {
	v := x.Velocity().Norm()
	r := x.Position().Norm()
	return 0.5*v*v - m.Mu/r
}

// Metric names recorded by every propagation.
const (
	MetricEnergyDrift = "energy_drift"
	MetricBoundedness = "boundedness"
)

// Propagate integrates the model with fixed-step RK4.
func Propagate(ctx context.Context, m *Model, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	return PropagateWith(ctx, m, integrators.NewRK4(), x0, cfg)
}

// PropagateWith integrates the model with integ. Energy drift and the
// fraction of states outside BodyRadius are always recorded; extra metrics
// are observed alongside them.
func PropagateWith(ctx context.Context, m *Model, integ dynamo.Integrator, x0 dynamo.State, cfg dynamo.Config, extra ...dynamo.Metric) (*dynamo.Result, error) {
	s := sim.New(m, integ)
	s.AddMetric(metrics.NewEnergyDrift(m))
	s.AddMetric(metrics.NewBoundedness(m.BodyRadius, 0))
	for _, metric := range extra {
		s.AddMetric(metric)
	}
	return s.Run(ctx, x0, cfg)
}

// EarthCentered builds a geocentric equatorial model with J2, lunar and
// solar tides and relativity. t is seconds after jd0.
func EarthCentered(jd0 ephemeris.JulianDate) *Model {
	moon := func(t float64) dynamo.Vec3 {
		return eclipticToEquatorial(ephemeris.MoonGeocentric(jd0.AddDays(t/ephemeris.SecondsPerDay)), 1e3)
	}
	sun := func(t float64) dynamo.Vec3 {
		return eclipticToEquatorial(ephemeris.SunGeocentric(jd0.AddDays(t/ephemeris.SecondsPerDay)), AU)
	}

	return &Model{
		Mu:         ephemeris.MuEarth,
		BodyRadius: EarthRadius,
		Contributors: []Contributor{
			J2{Mu: ephemeris.MuEarth, Radius: EarthRadius, J2: EarthJ2},
			ThirdBody{Body: "moon", Mu: ephemeris.MuMoon, Position: moon},
			ThirdBody{Body: "sun", Mu: ephemeris.MuSunSI, Position: sun},
			Relativistic{Mu: ephemeris.MuEarth},
		},
	}
}

func eclipticToEquatorial(v ephemeris.Vector, scale float64) dynamo.Vec3 {
	eq, err := ephemeris.Transform(v, ephemeris.J2000Equatorial, ephemeris.TransformOptions{})
	if err != nil {
		return dynamo.Vec3{}
	}
	return eq.Vec3().Scale(scale)
}

// Heliocentric builds a Sun-centered model with Earth as a third body and
// relativity, for propagating small bodies in the ecliptic frame.
func Heliocentric(jd0 ephemeris.JulianDate) *Model {
	earth := func(t float64) dynamo.Vec3 {
		return ephemeris.EarthHeliocentric(jd0.AddDays(t / ephemeris.SecondsPerDay)).Position.Scale(AU)
	}
	return &Model{
		Mu:         ephemeris.MuSunSI,
		BodyRadius: SunRadius,
		Contributors: []Contributor{
			ThirdBody{Body: "earth", Mu: ephemeris.MuEarth + ephemeris.MuMoon, Position: earth},
			Relativistic{Mu: ephemeris.MuSunSI},
		},
	}
}

// PropagateEnsemble runs the same model over several initial states in
// parallel, for dispersion studies. A nil newIntegrator uses RK4.
func PropagateEnsemble(ctx context.Context, m *Model, newIntegrator func() dynamo.Integrator, x0s []dynamo.State, cfg dynamo.Config, workers int) ([]*dynamo.Result, error) {
	if newIntegrator == nil {
		newIntegrator = func() dynamo.Integrator { return integrators.NewRK4() }
	}
	e := sim.NewEnsemble(m, newIntegrator, workers)
	return e.Run(ctx, x0s, cfg)
}
