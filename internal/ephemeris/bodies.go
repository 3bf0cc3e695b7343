package ephemeris

import (
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/kepler"
)

const (
	EarthRadiusKm = 6371.0
	// MuEarth and MuMoon are in m³/s², MuSunSI likewise.
	MuEarth = 3.986004418e14
	MuMoon  = 4.9048695e12
	MuSunSI = 1.32712440018e20
	AUm     = 1.495978707e11
)

// EarthElements returns the J2000 mean heliocentric elements of the
// Earth-Moon barycenter in the ecliptic frame.
func EarthElements() Elements {
	d := math.Pi / 180
	raan := -11.26064 * d
	lonPeri := 102.94719 * d
	meanLon := 100.46435 * d
	return Elements{
		SemiMajorAxis: 1.00000011,
		Eccentricity:  0.01671022,
		Inclination:   0.00005 * d,
		RAAN:          normalize(raan),
		ArgPeriapsis:  normalize(lonPeri - raan),
		MeanAnomaly:   normalize(meanLon - lonPeri),
		Epoch:         JulianDate{JD: J2000JD, Scale: TDB},
		Frame:         J2000Ecliptic,
	}
}

var earthSolver = kepler.NewSolver()

// EarthHeliocentric returns the Earth's heliocentric ecliptic position and
// velocity (AU, AU/day) from the mean elements.
func EarthHeliocentric(jd JulianDate) State {
	st, err := StateAt(EarthElements(), jd, earthSolver)
	if err != nil {
		// The mean elements are valid, so only an unknown scale gets here.
		return State{Frame: J2000Ecliptic, Epoch: jd, Warnings: []string{err.Error()}}
	}
	return st
}

// SunGeocentric is the Sun's geocentric ecliptic position in AU.
func SunGeocentric(jd JulianDate) Vector {
	e := EarthHeliocentric(jd)
	return NewVector(e.Position.Scale(-1), J2000Ecliptic, jd)
}

// MoonGeocentric is a low-precision geocentric ecliptic lunar position in km,
// good to a few tenths of a degree.
func MoonGeocentric(jd JulianDate) Vector {
	d := jd.JD - J2000JD
	r := math.Pi / 180

	mPrime := (134.963 + 13.064993*d) * r
	lon := (218.316+13.176396*d)*r + 6.289*r*math.Sin(mPrime)
	lat := 5.128 * r * math.Sin((93.272+13.229350*d)*r)
	dist := 385001 - 20905*math.Cos(mPrime)

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	p := dynamo.Vec3{
		X: dist * cosLat * cosLon,
		Y: dist * cosLat * sinLon,
		Z: dist * sinLat,
	}
	return NewVector(p, J2000Ecliptic, jd)
}
