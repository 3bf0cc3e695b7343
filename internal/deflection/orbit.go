package deflection

import (
	"fmt"

	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/kepler"
)

// RTN is a velocity change in m/s along the radial, transverse and
// orbit-normal directions.
type RTN struct {
	Radial     float64 `json:"radial" yaml:"radial"`
	Transverse float64 `json:"transverse" yaml:"transverse"`
	Normal     float64 `json:"normal" yaml:"normal"`
}

// ApplyDeltaV adds an impulsive velocity change at jd and returns the
// resulting osculating elements, with jd as their epoch.
func ApplyDeltaV(el ephemeris.Elements, jd ephemeris.JulianDate, dv RTN, solver *kepler.Solver) (ephemeris.Elements, error) {
	st, err := ephemeris.StateAt(el, jd, solver)
	if err != nil {
		return ephemeris.Elements{}, fmt.Errorf("apply delta-v: %w", err)
	}

	r, v := st.Position, st.Velocity
	rHat := r.Unit()
	nHat := r.Cross(v).Unit()
	tHat := nHat.Cross(rHat)

	// m/s to AU/day
	k := ephemeris.SecondsPerDay / ephemeris.AUm
	dvVec := rHat.Scale(dv.Radial * k).
		Add(tHat.Scale(dv.Transverse * k)).
		Add(nHat.Scale(dv.Normal * k))

	out, err := ephemeris.ElementsFromState(r, v.Add(dvVec), el.Mu, jd, el.Frame)
	if err != nil {
		return ephemeris.Elements{}, fmt.Errorf("apply delta-v: %w", err)
	}
	out.Mu = el.Mu
	return out, nil
}
