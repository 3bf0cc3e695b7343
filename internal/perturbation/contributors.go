// Package perturbation adds non-Keplerian accelerations to two-body motion
// and propagates the result numerically. All quantities are SI.
package perturbation

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

const (
	SpeedOfLight = 299792458.0
	// SolarPressure1AU is the radiation pressure on a perfect absorber at
	// 1 AU in N/m².
	SolarPressure1AU = 1361.0 / SpeedOfLight
	AU               = 1.495978707e11

	EarthJ2     = 1.08262668e-3
	EarthRadius = 6.3781363e6
	SunRadius   = 6.957e8
)

var ErrInvalidParameter = errors.New("perturbation: invalid parameter")

type Contribution struct {
	Name         string      `json:"name"`
	Acceleration dynamo.Vec3 `json:"acceleration"`
	Magnitude    float64     `json:"magnitude"`
	Description  string      `json:"description,omitempty"`
}

type Contributor interface {
	Name() string
	Acceleration(x dynamo.State, t float64) Contribution
}

func contribution(name, desc string, a dynamo.Vec3) Contribution {
	return Contribution{Name: name, Acceleration: a, Magnitude: a.Norm(), Description: desc}
}

// J2 is the oblateness term of the central body, with the symmetry axis
// along z of the propagation frame.
type J2 struct {
	Mu     float64
	Radius float64
	J2     float64
}

func (j J2) Name() string { return "j2" }

func (j J2) Acceleration(x dynamo.State, t float64) Contribution {
	r := x.Position()
	rn := r.Norm()
	if rn == 0 {
		return contribution(j.Name(), "oblateness", dynamo.Vec3{})
	}
	k := -1.5 * j.J2 * j.Mu * j.Radius * j.Radius / math.Pow(rn, 5)
	z2 := 5 * r.Z * r.Z / (rn * rn)
	a := dynamo.Vec3{
		X: k * r.X * (1 - z2),
		Y: k * r.Y * (1 - z2),
		Z: k * r.Z * (3 - z2),
	}
	return contribution(j.Name(), "oblateness", a)
}

// ThirdBody is the tidal pull of a body whose position relative to the
// central body is known as a function of time.
type ThirdBody struct {
	Body     string
	Mu       float64
	Position func(t float64) dynamo.Vec3
}

func (b ThirdBody) Name() string { return "third_body_" + b.Body }

func (b ThirdBody) Acceleration(x dynamo.State, t float64) Contribution {
	s := b.Position(t)
	d := s.Sub(x.Position())
	dn := d.Norm()
	sn := s.Norm()
	if dn == 0 || sn == 0 {
		return contribution(b.Name(), b.Body, dynamo.Vec3{})
	}
	direct := d.Scale(b.Mu / (dn * dn * dn))
	indirect := s.Scale(b.Mu / (sn * sn * sn))
	return contribution(b.Name(), b.Body, direct.Sub(indirect))
}

// Relativistic is the Schwarzschild correction of the central body.
type Relativistic struct {
	Mu float64
}

func (g Relativistic) Name() string { return "relativity" }

func (g Relativistic) Acceleration(x dynamo.State, t float64) Contribution {
	r := x.Position()
	v := x.Velocity()
	rn := r.Norm()
	if rn == 0 {
		return contribution(g.Name(), "schwarzschild", dynamo.Vec3{})
	}
	c2 := SpeedOfLight * SpeedOfLight
	k := g.Mu / (c2 * rn * rn * rn)
	a := r.Scale(k * (4*g.Mu/rn - v.Dot(v))).Add(v.Scale(k * 4 * r.Dot(v)))
	return contribution(g.Name(), "schwarzschild", a)
}

// RadiationPressure is a cannonball solar radiation pressure model.
// Reflectivity is 1 for a perfect absorber and 2 for a perfect mirror.
type RadiationPressure struct {
	Mass         float64
	Area         float64
	Reflectivity float64
	SunPosition  func(t float64) dynamo.Vec3
}

func NewRadiationPressure(mass, area, reflectivity float64, sun func(t float64) dynamo.Vec3) (*RadiationPressure, error) {
	if mass <= 0 || area <= 0 || reflectivity <= 0 {
		return nil, fmt.Errorf("%w: mass, area and reflectivity must be positive (got %g, %g, %g)",
			ErrInvalidParameter, mass, area, reflectivity)
	}
	if sun == nil {
		sun = func(float64) dynamo.Vec3 { return dynamo.Vec3{} }
	}
	return &RadiationPressure{Mass: mass, Area: area, Reflectivity: reflectivity, SunPosition: sun}, nil
}

func (p *RadiationPressure) Name() string { return "radiation_pressure" }

func (p *RadiationPressure) Acceleration(x dynamo.State, t float64) Contribution {
	d := x.Position().Sub(p.SunPosition(t))
	dn := d.Norm()
	if dn == 0 {
		return contribution(p.Name(), "cannonball", dynamo.Vec3{})
	}
	scale := AU / dn
	mag := SolarPressure1AU * scale * scale * p.Reflectivity * p.Area / p.Mass
	return contribution(p.Name(), "cannonball", d.Scale(mag/dn))
}
