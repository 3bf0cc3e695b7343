package ephemeris

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// GaussK is the Gaussian gravitational constant; MuSun = k² in AU³/day².
const (
	GaussK = 0.01720209895
	MuSun  = GaussK * GaussK
)

var ErrSemiMajorAxisSign = errors.New("ephemeris: semi-major axis sign inconsistent with eccentricity")

// Elements are osculating Keplerian elements. Distances are in AU, angles in
// radians. For parabolic orbits SemiMajorAxis is ignored and
// PeriapsisDistance is used instead, with MeanAnomaly holding the Barker
// parameter at epoch.
type Elements struct {
	SemiMajorAxis     float64    `json:"semi_major_axis"`
	Eccentricity      float64    `json:"eccentricity"`
	Inclination       float64    `json:"inclination"`
	RAAN              float64    `json:"raan"`
	ArgPeriapsis      float64    `json:"arg_periapsis"`
	MeanAnomaly       float64    `json:"mean_anomaly"`
	PeriapsisDistance float64    `json:"periapsis_distance,omitempty"`
	Epoch             JulianDate `json:"epoch"`
	Frame             Frame      `json:"frame"`
	Mu                float64    `json:"mu,omitempty"`
}

func (el Elements) mu() float64 {
	if el.Mu > 0 {
		return el.Mu
	}
	return MuSun
}

func (el Elements) Kind() kepler.Kind { return kepler.Classify(el.Eccentricity) }

func (el Elements) Validate() error {
	if el.Eccentricity < 0 {
		return fmt.Errorf("%w: %g", kepler.ErrNegativeEccentricity, el.Eccentricity)
	}
	switch el.Kind() {
	case kepler.Elliptical:
		if el.SemiMajorAxis <= 0 {
			return fmt.Errorf("%w: a=%g for e=%g", ErrSemiMajorAxisSign, el.SemiMajorAxis, el.Eccentricity)
		}
	case kepler.Hyperbolic:
		if el.SemiMajorAxis >= 0 {
			return fmt.Errorf("%w: a=%g for e=%g", ErrSemiMajorAxisSign, el.SemiMajorAxis, el.Eccentricity)
		}
	case kepler.Parabolic:
		if el.PeriapsisDistance <= 0 {
			return fmt.Errorf("ephemeris: parabolic orbit needs a positive periapsis distance")
		}
	}
	return nil
}

// SemiLatusRectum in AU.
func (el Elements) SemiLatusRectum() float64 {
	if el.Kind() == kepler.Parabolic {
		return 2 * el.PeriapsisDistance
	}
	return el.SemiMajorAxis * (1 - el.Eccentricity*el.Eccentricity)
}

// Periapsis returns the periapsis distance in AU for any regime.
func (el Elements) Periapsis() float64 {
	if el.Kind() == kepler.Parabolic {
		return el.PeriapsisDistance
	}
	return el.SemiMajorAxis * (1 - el.Eccentricity)
}

// MeanMotion in rad/day. For parabolic orbits this is the Barker rate
// sqrt(μ/2q³).
func MeanMotion(el Elements) float64 {
	if el.Kind() == kepler.Parabolic {
		q := el.PeriapsisDistance
		return math.Sqrt(el.mu() / (2 * q * q * q))
	}
	a := math.Abs(el.SemiMajorAxis)
	return math.Sqrt(el.mu() / (a * a * a))
}

// Period in days; +Inf for open orbits.
func Period(el Elements) float64 {
	if el.Kind() != kepler.Elliptical {
		return math.Inf(1)
	}
	return 2 * math.Pi / MeanMotion(el)
}

// PerifocalToFrame rotates perifocal coordinates into the elements' frame:
// Rz(Ω)·Rx(i)·Rz(ω) as active rotations.
func PerifocalToFrame(raan, inc, argp float64) Matrix3 {
	return RotZ(-raan).Mul(RotX(-inc)).Mul(RotZ(-argp))
}

// State is a position and velocity in AU and AU/day.
type State struct {
	Position dynamo.Vec3     `json:"position"`
	Velocity dynamo.Vec3     `json:"velocity"`
	Frame    Frame           `json:"frame"`
	Epoch    JulianDate      `json:"epoch"`
	Anomaly  kepler.Solution `json:"anomaly"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (s State) Distance() float64 { return s.Position.Norm() }
func (s State) Speed() float64    { return s.Velocity.Norm() }

// PositionAtTrueAnomaly returns the position for a true anomaly without
// solving Kepler's equation.
func PositionAtTrueAnomaly(el Elements, nu float64) dynamo.Vec3 {
	r := el.SemiLatusRectum() / (1 + el.Eccentricity*math.Cos(nu))
	sinNu, cosNu := math.Sincos(nu)
	pf := dynamo.Vec3{X: r * cosNu, Y: r * sinNu}
	return PerifocalToFrame(el.RAAN, el.Inclination, el.ArgPeriapsis).MulVec(pf)
}

// StateAt propagates the elements to jd on the two-body orbit. The date is
// compared with the epoch in the epoch's time scale.
func StateAt(el Elements, jd JulianDate, solver *kepler.Solver) (State, error) {
	if err := el.Validate(); err != nil {
		return State{}, err
	}
	at, err := ConvertScale(jd, el.Epoch.Scale)
	if err != nil {
		return State{}, err
	}
	dt := at.JD - el.Epoch.JD

	M := el.MeanAnomaly + MeanMotion(el)*dt
	sol, err := solver.Solve(M, el.Eccentricity)
	if err != nil {
		return State{}, err
	}

	mu := el.mu()
	p := el.SemiLatusRectum()
	e := el.Eccentricity
	nu := sol.TrueAnomaly
	sinNu, cosNu := math.Sincos(nu)
	r := p / (1 + e*cosNu)

	vf := math.Sqrt(mu / p)
	rot := PerifocalToFrame(el.RAAN, el.Inclination, el.ArgPeriapsis)
	pos := rot.MulVec(dynamo.Vec3{X: r * cosNu, Y: r * sinNu})
	vel := rot.MulVec(dynamo.Vec3{X: -vf * sinNu, Y: vf * (e + cosNu)})

	st := State{
		Position: pos,
		Velocity: vel,
		Frame:    el.Frame,
		Epoch:    jd,
		Anomaly:  sol,
		Warnings: append([]string(nil), sol.Warnings...),
	}

	var v2 float64
	if el.Kind() == kepler.Parabolic {
		v2 = 2 * mu / r
	} else {
		v2 = mu * (2/r - 1/el.SemiMajorAxis)
	}
	if got := vel.Norm(); math.Abs(got*got-v2) > 1e-8*v2 {
		st.Warnings = append(st.Warnings, fmt.Sprintf("speed %.6e differs from vis-viva %.6e", got, math.Sqrt(v2)))
	}
	return st, nil
}

// ElementsFromState recovers osculating elements from a position (AU) and
// velocity (AU/day). Circular orbits measure the anomaly from the node,
// equatorial orbits measure from the x axis.
func ElementsFromState(r, v dynamo.Vec3, mu float64, epoch JulianDate, frame Frame) (Elements, error) {
	if mu <= 0 {
		mu = MuSun
	}
	rn := r.Norm()
	if rn == 0 {
		return Elements{}, fmt.Errorf("ephemeris: zero position vector")
	}
	h := r.Cross(v)
	hn := h.Norm()
	if hn == 0 {
		return Elements{}, fmt.Errorf("ephemeris: rectilinear orbit has no elements")
	}
	hHat := h.Scale(1 / hn)

	v2 := v.Dot(v)
	eVec := r.Scale(v2 - mu/rn).Sub(v.Scale(r.Dot(v))).Scale(1 / mu)
	e := eVec.Norm()

	node := dynamo.Vec3{X: -h.Y, Y: h.X}
	if node.Norm() < 1e-12*hn {
		node = dynamo.Vec3{X: 1}
	}

	const circular = 1e-11
	var argp, nu float64
	if e < circular {
		e = 0
		nu = signedAngle(node, r, hHat)
	} else {
		argp = signedAngle(node, eVec, hHat)
		nu = signedAngle(eVec, r, hHat)
	}

	el := Elements{
		Eccentricity: e,
		Inclination:  math.Acos(math.Max(-1, math.Min(1, hHat.Z))),
		RAAN:         normalize(math.Atan2(node.Y, node.X)),
		ArgPeriapsis: normalize(argp),
		Epoch:        epoch,
		Frame:        frame,
		Mu:           mu,
	}

	if kepler.Classify(e) == kepler.Parabolic {
		el.PeriapsisDistance = hn * hn / (2 * mu)
	} else {
		el.SemiMajorAxis = -mu / (v2 - 2*mu/rn)
	}
	el.MeanAnomaly = kepler.MeanFromTrue(nu, e)
	return el, nil
}

// signedAngle is the angle from a to b measured about axis, in (−π, π].
func signedAngle(a, b, axis dynamo.Vec3) float64 {
	return math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
}

// UncertainElements are catalog elements with their 1σ uncertainties.
// Angles are in degrees as catalogs publish them.
type UncertainElements struct {
	SemiMajorAxis     uncertainty.Value `json:"semi_major_axis" yaml:"semi_major_axis"`
	Eccentricity      uncertainty.Value `json:"eccentricity" yaml:"eccentricity"`
	Inclination       uncertainty.Value `json:"inclination" yaml:"inclination"`
	RAAN              uncertainty.Value `json:"raan" yaml:"raan"`
	ArgPeriapsis      uncertainty.Value `json:"arg_periapsis" yaml:"arg_periapsis"`
	MeanAnomaly       uncertainty.Value `json:"mean_anomaly" yaml:"mean_anomaly"`
	PeriapsisDistance uncertainty.Value `json:"periapsis_distance" yaml:"periapsis_distance"`
	Epoch             JulianDate        `json:"epoch" yaml:"epoch"`
	Frame             Frame             `json:"frame" yaml:"-"`
	Mu                float64           `json:"mu,omitempty" yaml:"mu,omitempty"`
}

func (u UncertainElements) Nominal() Elements {
	d := math.Pi / 180
	return Elements{
		SemiMajorAxis:     u.SemiMajorAxis.Value,
		Eccentricity:      u.Eccentricity.Value,
		Inclination:       u.Inclination.Value * d,
		RAAN:              u.RAAN.Value * d,
		ArgPeriapsis:      u.ArgPeriapsis.Value * d,
		MeanAnomaly:       u.MeanAnomaly.Value * d,
		PeriapsisDistance: u.PeriapsisDistance.Value,
		Epoch:             u.Epoch,
		Frame:             u.Frame,
		Mu:                u.Mu,
	}
}

// Sigmas returns the 1σ values in the order a, e, i, Ω, ω, M with angles in
// radians.
func (u UncertainElements) Sigmas() [6]float64 {
	d := math.Pi / 180
	return [6]float64{
		u.SemiMajorAxis.Uncertainty,
		u.Eccentricity.Uncertainty,
		u.Inclination.Uncertainty * d,
		u.RAAN.Uncertainty * d,
		u.ArgPeriapsis.Uncertainty * d,
		u.MeanAnomaly.Uncertainty * d,
	}
}

// MaxRelativeUncertainty is the largest fractional position error implied
// by any single element: σ/|x| for a and e, and the angular σ in radians
// for the angles.
func (u UncertainElements) MaxRelativeUncertainty() float64 {
	s := u.Sigmas()
	m := math.Max(u.SemiMajorAxis.RelativeUncertainty(), u.Eccentricity.RelativeUncertainty())
	for _, v := range s[2:] {
		m = math.Max(m, v)
	}
	return m
}
