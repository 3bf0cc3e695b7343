package ephemeris

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

func TestStateElementsRoundTrip(t *testing.T) {
	d := math.Pi / 180
	epoch := NewJulianDate(2460000.5, TDB)
	tests := []struct {
		name string
		el   Elements
	}{
		{"elliptical", Elements{SemiMajorAxis: 1.3, Eccentricity: 0.3, Inclination: 10 * d, RAAN: 40 * d, ArgPeriapsis: 60 * d, MeanAnomaly: 1.0}},
		{"high eccentricity", Elements{SemiMajorAxis: 2.5, Eccentricity: 0.9, Inclination: 25 * d, RAAN: 300 * d, ArgPeriapsis: 200 * d, MeanAnomaly: 5.5}},
		{"hyperbolic", Elements{SemiMajorAxis: -0.8, Eccentricity: 1.6, Inclination: 120 * d, RAAN: 10 * d, ArgPeriapsis: 80 * d, MeanAnomaly: -0.4}},
	}

	solver := kepler.NewSolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.el.Epoch = epoch
			st, err := StateAt(tt.el, epoch, solver)
			if err != nil {
				t.Fatal(err)
			}
			if len(st.Warnings) != 0 {
				t.Errorf("unexpected warnings %v", st.Warnings)
			}

			got, err := ElementsFromState(st.Position, st.Velocity, 0, epoch, J2000Ecliptic)
			if err != nil {
				t.Fatal(err)
			}

			checks := []struct {
				name      string
				got, want float64
				angle     bool
			}{
				{"a", got.SemiMajorAxis, tt.el.SemiMajorAxis, false},
				{"e", got.Eccentricity, tt.el.Eccentricity, false},
				{"i", got.Inclination, tt.el.Inclination, true},
				{"raan", got.RAAN, tt.el.RAAN, true},
				{"argp", got.ArgPeriapsis, tt.el.ArgPeriapsis, true},
				{"M", got.MeanAnomaly, tt.el.MeanAnomaly, true},
			}
			for _, c := range checks {
				diff := c.got - c.want
				if c.angle {
					diff = math.Remainder(diff, 2*math.Pi)
				}
				if math.Abs(diff) > 1e-9 {
					t.Errorf("%s: expected %.12f, got %.12f", c.name, c.want, c.got)
				}
			}
		})
	}
}

func TestStateAtPropagatesOnePeriod(t *testing.T) {
	el := Elements{SemiMajorAxis: 1.5, Eccentricity: 0.2, Inclination: 0.1, MeanAnomaly: 0.3, Epoch: NewJulianDate(2460000.5, TDB)}
	solver := kepler.NewSolver()

	s0, err := StateAt(el, el.Epoch, solver)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := StateAt(el, el.Epoch.AddDays(Period(el)), solver)
	if err != nil {
		t.Fatal(err)
	}
	if d := s0.Position.DistanceTo(s1.Position); d > 1e-9 {
		t.Errorf("orbit not closed after one period: %g AU", d)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		el   Elements
		want error
	}{
		{"negative e", Elements{SemiMajorAxis: 1, Eccentricity: -0.1}, kepler.ErrNegativeEccentricity},
		{"elliptic negative a", Elements{SemiMajorAxis: -1, Eccentricity: 0.5}, ErrSemiMajorAxisSign},
		{"hyperbolic positive a", Elements{SemiMajorAxis: 1, Eccentricity: 1.5}, ErrSemiMajorAxisSign},
		{"ok", Elements{SemiMajorAxis: 1, Eccentricity: 0.5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.el.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParabolicState(t *testing.T) {
	el := Elements{Eccentricity: 1, PeriapsisDistance: 0.8, Epoch: J2000}
	st, err := StateAt(el, J2000, kepler.NewSolver())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.Distance()-0.8) > 1e-12 {
		t.Errorf("expected periapsis distance 0.8, got %g", st.Distance())
	}
	if want := math.Sqrt(2 * MuSun / 0.8); math.Abs(st.Speed()-want) > 1e-12 {
		t.Errorf("expected escape speed %g, got %g", want, st.Speed())
	}
}

func TestEarthBodies(t *testing.T) {
	jd := NewJulianDate(J2000JD, TDB)
	earth := EarthHeliocentric(jd)
	if r := earth.Distance(); math.Abs(r-0.9833) > 0.002 {
		t.Errorf("expected Earth near perihelion distance, got %g AU", r)
	}
	if p := Period(EarthElements()); math.Abs(p-365.256) > 0.01 {
		t.Errorf("expected sidereal year, got %g days", p)
	}

	sun := SunGeocentric(jd)
	if math.Abs(sun.Norm()-earth.Distance()) > 1e-15 {
		t.Error("sun geocentric distance should mirror Earth's")
	}

	for i := 0; i < 60; i++ {
		moon := MoonGeocentric(jd.AddDays(float64(i)))
		if r := moon.Norm(); r < 356000 || r > 407000 {
			t.Errorf("day %d: lunar distance %g km out of range", i, r)
		}
	}
}

func TestUncertainElements(t *testing.T) {
	u := UncertainElements{
		SemiMajorAxis: uncertainty.New(1.5, 0.003, "AU"),
		Eccentricity:  uncertainty.New(0.2, 0.0001, ""),
		Inclination:   uncertainty.New(5, 0.01, "deg"),
		RAAN:          uncertainty.New(30, 0.02, "deg"),
		ArgPeriapsis:  uncertainty.New(45, 0.0, "deg"),
		MeanAnomaly:   uncertainty.New(90, 0.0, "deg"),
		Epoch:         J2000,
	}
	n := u.Nominal()
	if math.Abs(n.MeanAnomaly-math.Pi/2) > 1e-15 || n.SemiMajorAxis != 1.5 {
		t.Errorf("unexpected nominal %+v", n)
	}
	if got := u.MaxRelativeUncertainty(); math.Abs(got-0.002) > 1e-15 {
		t.Errorf("expected 0.002, got %g", got)
	}
}
