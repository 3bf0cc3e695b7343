package ephemeris

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// Frame identifies a reference frame. The numeric order is the order of the
// transformation chain.
type Frame int

const (
	J2000Ecliptic Frame = iota
	J2000Equatorial
	EarthFixed
	Topocentric
)

var frameNames = map[Frame]string{
	J2000Ecliptic:   "J2000_ECLIPTIC",
	J2000Equatorial: "J2000_EQUATORIAL",
	EarthFixed:      "EARTH_FIXED",
	Topocentric:     "TOPOCENTRIC",
}

func (f Frame) String() string {
	if s, ok := frameNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Frame(%d)", int(f))
}

func ParseFrame(s string) (Frame, error) {
	for f, name := range frameNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("ephemeris: unknown frame %q", s)
}

func (f Frame) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f *Frame) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseFrame(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

var ErrObserverRequired = errors.New("ephemeris: observer required for topocentric transform")

// Vector is a position in a named frame at an epoch. Transform only
// rotates about the Earth's centre, so a vector bound for the Earth-fixed
// or topocentric frame must be geocentric and in km; GeocentricKm converts
// a heliocentric AU vector.
type Vector struct {
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Z     float64    `json:"z"`
	Frame Frame      `json:"frame"`
	Epoch JulianDate `json:"epoch"`
}

func NewVector(v dynamo.Vec3, frame Frame, epoch JulianDate) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z, Frame: frame, Epoch: epoch}
}

// GeocentricKm moves a heliocentric ecliptic or equatorial position in AU
// to the Earth's centre and rescales it to km, keeping the frame.
func GeocentricKm(v Vector) (Vector, error) {
	earth := EarthHeliocentric(v.Epoch)
	if len(earth.Warnings) > 0 {
		return Vector{}, fmt.Errorf("ephemeris: earth position: %s", earth.Warnings[0])
	}
	e := earth.Position
	switch v.Frame {
	case J2000Ecliptic:
	case J2000Equatorial:
		e = RotX(-J2000Obliquity).MulVec(e)
	default:
		return Vector{}, fmt.Errorf("ephemeris: %s is not a heliocentric frame", v.Frame)
	}
	return NewVector(v.Vec3().Sub(e).Scale(AUm/1e3), v.Frame, v.Epoch), nil
}

func (v Vector) Vec3() dynamo.Vec3 { return dynamo.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vector) Norm() float64 { return v.Vec3().Norm() }

// Observer is a geodetic site on the WGS-84 ellipsoid.
type Observer struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`   // rad
	Longitude float64 `json:"longitude" yaml:"longitude"` // rad, east positive
	Altitude  float64 `json:"altitude" yaml:"altitude"`   // km
}

type PolarMotion struct {
	Xp float64 // rad
	Yp float64 // rad
}

type TransformOptions struct {
	Observer    *Observer
	PolarMotion PolarMotion
}

const (
	wgs84A = 6378.137 // km
	wgs84F = 1 / 298.257223563
)

// ObserverECEF returns the Earth-fixed position of an observer in km.
func ObserverECEF(obs Observer) dynamo.Vec3 {
	e2 := wgs84F * (2 - wgs84F)
	sinLat, cosLat := math.Sincos(obs.Latitude)
	sinLon, cosLon := math.Sincos(obs.Longitude)
	n := wgs84A / math.Sqrt(1-e2*sinLat*sinLat)
	return dynamo.Vec3{
		X: (n + obs.Altitude) * cosLat * cosLon,
		Y: (n + obs.Altitude) * cosLat * sinLon,
		Z: (n*(1-e2) + obs.Altitude) * sinLat,
	}
}

// enuMatrix rotates Earth-fixed offsets into east, north, up.
func enuMatrix(obs Observer) Matrix3 {
	sinLat, cosLat := math.Sincos(obs.Latitude)
	sinLon, cosLon := math.Sincos(obs.Longitude)
	return Matrix3{
		{-sinLon, cosLon, 0},
		{-sinLat * cosLon, -sinLat * sinLon, cosLat},
		{cosLat * cosLon, cosLat * sinLon, sinLat},
	}
}

func polarMatrix(pm PolarMotion) Matrix3 {
	return RotX(-pm.Yp).Mul(RotY(-pm.Xp))
}

func earthRotation(epoch JulianDate, pm PolarMotion) (Matrix3, error) {
	utc, err := ConvertScale(epoch, UTC)
	if err != nil {
		return Matrix3{}, err
	}
	m := RotZ(GMST(utc.JD))
	if pm.Xp != 0 || pm.Yp != 0 {
		m = polarMatrix(pm).Mul(m)
	}
	return m, nil
}

// Transform expresses v in another frame, stepping along the chain
// ecliptic, equatorial, Earth-fixed, topocentric.
func Transform(v Vector, to Frame, opts TransformOptions) (Vector, error) {
	if _, ok := frameNames[to]; !ok {
		return Vector{}, fmt.Errorf("ephemeris: unknown target frame %d", int(to))
	}
	if (v.Frame == Topocentric || to == Topocentric) && v.Frame != to && opts.Observer == nil {
		return Vector{}, ErrObserverRequired
	}

	out := v
	for out.Frame != to {
		var err error
		if out.Frame < to {
			out, err = stepUp(out, opts)
		} else {
			out, err = stepDown(out, opts)
		}
		if err != nil {
			return Vector{}, err
		}
	}
	return out, nil
}

func stepUp(v Vector, opts TransformOptions) (Vector, error) {
	p := v.Vec3()
	switch v.Frame {
	case J2000Ecliptic:
		p = RotX(-J2000Obliquity).MulVec(p)
	case J2000Equatorial:
		m, err := earthRotation(v.Epoch, opts.PolarMotion)
		if err != nil {
			return Vector{}, err
		}
		p = m.MulVec(p)
	case EarthFixed:
		p = enuMatrix(*opts.Observer).MulVec(p.Sub(ObserverECEF(*opts.Observer)))
	default:
		return Vector{}, fmt.Errorf("ephemeris: no frame above %s", v.Frame)
	}
	return NewVector(p, v.Frame+1, v.Epoch), nil
}

func stepDown(v Vector, opts TransformOptions) (Vector, error) {
	p := v.Vec3()
	switch v.Frame {
	case J2000Equatorial:
		p = RotX(J2000Obliquity).MulVec(p)
	case EarthFixed:
		m, err := earthRotation(v.Epoch, opts.PolarMotion)
		if err != nil {
			return Vector{}, err
		}
		p = m.Transpose().MulVec(p)
	case Topocentric:
		p = enuMatrix(*opts.Observer).Transpose().MulVec(p).Add(ObserverECEF(*opts.Observer))
	default:
		return Vector{}, fmt.Errorf("ephemeris: no frame below %s", v.Frame)
	}
	return NewVector(p, v.Frame-1, v.Epoch), nil
}

// AzEl returns azimuth (from north through east) and elevation in radians
// for a topocentric vector.
func AzEl(v Vector) (az, el float64) {
	az = normalize(math.Atan2(v.X, v.Y))
	el = math.Atan2(v.Z, math.Hypot(v.X, v.Y))
	return az, el
}
