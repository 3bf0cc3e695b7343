package perturbation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/integrators"
	"github.com/san-kum/neoshield/internal/metrics"
)

func leoState(radius float64) dynamo.State {
	v := math.Sqrt(ephemeris.MuEarth / radius)
	return dynamo.State{radius, 0, 0, 0, v, 0}
}

func TestJ2Equator(t *testing.T) {
	j := J2{Mu: ephemeris.MuEarth, Radius: EarthRadius, J2: EarthJ2}
	got := j.Acceleration(dynamo.State{EarthRadius, 0, 0, 0, 0, 0}, 0)

	want := -1.5 * EarthJ2 * ephemeris.MuEarth / (EarthRadius * EarthRadius)
	if math.Abs(got.Acceleration.X-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, got.Acceleration.X)
	}
	if got.Acceleration.Y != 0 || got.Acceleration.Z != 0 {
		t.Errorf("expected purely radial acceleration, got %v", got.Acceleration)
	}
	if got.Magnitude != math.Abs(want) {
		t.Errorf("magnitude %g does not match", got.Magnitude)
	}
}

func TestThirdBodyVanishesAtCenter(t *testing.T) {
	b := ThirdBody{Body: "moon", Mu: ephemeris.MuMoon, Position: func(float64) dynamo.Vec3 { return dynamo.Vec3{X: 3.844e8} }}
	got := b.Acceleration(dynamo.State{0, 0, 0, 0, 0, 0}, 0)
	if got.Magnitude > 1e-20 {
		t.Errorf("expected zero tidal acceleration at the center, got %g", got.Magnitude)
	}

	near := b.Acceleration(dynamo.State{1e7, 0, 0, 0, 0, 0}, 0)
	if near.Acceleration.X <= 0 {
		t.Errorf("expected tidal stretch toward the moon, got %v", near.Acceleration)
	}
}

func TestRelativisticCircular(t *testing.T) {
	g := Relativistic{Mu: ephemeris.MuEarth}
	x := leoState(7e6)
	a := g.Acceleration(x, 0)
	if a.Acceleration.Dot(x.Position()) <= 0 {
		t.Error("expected outward correction on a circular orbit")
	}
	if a.Magnitude > 1e-7 || a.Magnitude < 1e-9 {
		t.Errorf("unexpected magnitude %g", a.Magnitude)
	}
}

func TestRadiationPressure(t *testing.T) {
	if _, err := NewRadiationPressure(0, 1, 1, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewRadiationPressure(1, 1, -1, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	p, err := NewRadiationPressure(100, 10, 1.5, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Acceleration(dynamo.State{AU, 0, 0, 0, 0, 0}, 0)
	want := SolarPressure1AU * 1.5 * 10 / 100
	if math.Abs(got.Magnitude-want) > 1e-15 {
		t.Errorf("expected %g, got %g", want, got.Magnitude)
	}
	if got.Acceleration.X <= 0 {
		t.Error("expected acceleration away from the Sun")
	}
}

func TestTwoBodyPropagationClosesOrbit(t *testing.T) {
	m := &Model{Mu: ephemeris.MuEarth, BodyRadius: EarthRadius}
	r := 7e6
	x0 := leoState(r)
	period := 2 * math.Pi * math.Sqrt(r*r*r/ephemeris.MuEarth)

	res, err := Propagate(context.Background(), m, x0, dynamo.Config{Dt: 10, Duration: period, ValidateState: true})
	if err != nil {
		t.Fatal(err)
	}
	if d := res.Final().Position().DistanceTo(x0.Position()); d > 10 {
		t.Errorf("orbit did not close: %g m", d)
	}
	if res.Metrics["energy_drift"] > 1e-8 {
		t.Errorf("energy drift too large: %g", res.Metrics["energy_drift"])
	}
	if res.Metrics["boundedness"] != 1 {
		t.Errorf("orbit should never enter the Earth, got %g", res.Metrics["boundedness"])
	}
	if x0[0] != r {
		t.Error("initial state was mutated")
	}
}

func TestEarthCenteredBreakdown(t *testing.T) {
	m := EarthCentered(ephemeris.NewJulianDate(2460000.5, ephemeris.TT))
	total := m.Total(leoState(7e6), 0)

	if len(total.Breakdown) != 4 {
		t.Fatalf("expected 4 contributors, got %d", len(total.Breakdown))
	}
	mag := map[string]float64{}
	for _, c := range total.Breakdown {
		mag[c.Name] = c.Magnitude
	}
	if !(mag["j2"] > mag["third_body_moon"] && mag["third_body_moon"] > mag["relativity"]) {
		t.Errorf("unexpected ordering of perturbations: %v", mag)
	}
	if mag["third_body_sun"] <= 0 {
		t.Error("expected a solar tide")
	}
	if total.Central.Norm() < 1000*total.Acceleration.Norm() {
		t.Error("perturbations should be small compared to central gravity")
	}
}

func TestPropagateEnsemble(t *testing.T) {
	m := &Model{Mu: ephemeris.MuEarth, BodyRadius: EarthRadius}
	x0s := []dynamo.State{leoState(7e6), leoState(8e6)}

	res, err := PropagateEnsemble(context.Background(), m, nil, x0s, dynamo.Config{Dt: 10, Duration: 600}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range res {
		if got, want := r.Final().Position().Norm(), x0s[i].Position().Norm(); math.Abs(got-want) > 1 {
			t.Errorf("member %d: radius %g, expected %g", i, got, want)
		}
	}
}

func TestPropagateWithExtraMetric(t *testing.T) {
	m := &Model{Mu: ephemeris.MuEarth, BodyRadius: EarthRadius}
	closest := metrics.NewMinDistance("min_radius", nil)

	res, err := PropagateWith(context.Background(), m, integrators.NewRK45(), leoState(7e6), dynamo.Config{Dt: 60, Duration: 3600}, closest)
	if err != nil {
		t.Fatal(err)
	}
	if b := res.Metrics[MetricBoundedness]; b != 1 {
		t.Errorf("boundedness = %g, want 1 for a circular orbit above the surface", b)
	}
	if d := res.Metrics[MetricEnergyDrift]; d > 1e-7 {
		t.Errorf("energy drift = %g", d)
	}
	if got := res.Metrics["min_radius"]; math.Abs(got-7e6) > 10 {
		t.Errorf("min radius = %g, want 7e6", got)
	}
}
