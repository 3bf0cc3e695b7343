package kepler

import "math"

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func TrueFromEccentric(E, e float64) float64 {
	return 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(E/2), math.Sqrt(1-e)*math.Cos(E/2))
}

func EccentricFromTrue(nu, e float64) float64 {
	return 2 * math.Atan2(math.Sqrt(1-e)*math.Sin(nu/2), math.Sqrt(1+e)*math.Cos(nu/2))
}

func TrueFromHyperbolic(H, e float64) float64 {
	return 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(H/2))
}

func HyperbolicFromTrue(nu, e float64) float64 {
	return 2 * math.Atanh(math.Sqrt((e-1)/(e+1))*math.Tan(nu/2))
}

// MeanFromTrue inverts the solver for any regime. Elliptical results are in
// [0, 2π); hyperbolic and parabolic results keep their sign.
func MeanFromTrue(nu, e float64) float64 {
	switch Classify(e) {
	case Parabolic:
		s := math.Tan(nu / 2)
		return s + s*s*s/3
	case Hyperbolic:
		H := HyperbolicFromTrue(nu, e)
		return e*math.Sinh(H) - H
	default:
		E := EccentricFromTrue(nu, e)
		return NormalizeAngle(E - e*math.Sin(E))
	}
}

// AsymptoteAngle is the limiting true anomaly of a hyperbolic orbit,
// acos(−1/e). Non-hyperbolic orbits return π.
func AsymptoteAngle(e float64) float64 {
	if e <= 1 {
		return math.Pi
	}
	return math.Acos(-1 / e)
}
