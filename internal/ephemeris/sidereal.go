package ephemeris

import "math"

const arcsec = math.Pi / (180 * 3600)

// J2000Obliquity is the mean obliquity of the ecliptic at J2000 in radians.
const J2000Obliquity = 23.4392911 * math.Pi / 180

// EarthRotationAngle in radians for a UT1 Julian date (UTC is an accepted
// stand-in).
func EarthRotationAngle(jdUT1 float64) float64 {
	d := jdUT1 - J2000JD
	frac := math.Mod(jdUT1, 1.0)
	era := 2 * math.Pi * (frac + 0.7790572732640 + 0.00273781191135448*d)
	return normalize(era)
}

// GMST is the IAU-1982 Greenwich mean sidereal time in radians.
func GMST(jdUT1 float64) float64 {
	t := (jdUT1 - J2000JD) / DaysPerCentury
	sec := 67310.54841 + (876600*3600+8640184.812866)*t + 0.093104*t*t - 6.2e-6*t*t*t
	sec = math.Mod(sec, SecondsPerDay)
	return normalize(sec * 2 * math.Pi / SecondsPerDay)
}

// MeanObliquity is the IAU-1980 mean obliquity in radians for a TT date.
func MeanObliquity(jdTT float64) float64 {
	t := (jdTT - J2000JD) / DaysPerCentury
	eps := 84381.448 - 46.8150*t - 0.00059*t*t + 0.001813*t*t*t
	return eps * arcsec
}

func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
