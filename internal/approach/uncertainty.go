package approach

import (
	"math"

	"github.com/san-kum/neoshield/internal/ephemeris"
)

// Covariance is a 6×6 element covariance in the order a (AU), e, i, Ω, ω,
// M (rad).
type Covariance [6][6]float64

// DiagonalCovariance builds a covariance from independent element sigmas.
func DiagonalCovariance(u ephemeris.UncertainElements) Covariance {
	var c Covariance
	for i, s := range u.Sigmas() {
		c[i][i] = s * s
	}
	return c
}

func distanceSigma(el ephemeris.Elements, opts Options, jd ephemeris.JulianDate) float64 {
	if opts.Covariance != nil {
		return DistanceUncertainty(el, jd, opts.Covariance, 0)
	}
	return DistanceUncertainty(el, jd, nil, opts.Uncertain.MaxRelativeUncertainty())
}

// DistanceUncertainty returns the 1σ of the geocentric distance at jd. With
// a covariance it maps the element errors through a finite-difference
// Jacobian; without one it falls back to maxRelative times the heliocentric
// distance of the body, a coarse upper bound.
func DistanceUncertainty(el ephemeris.Elements, jd ephemeris.JulianDate, cov *Covariance, maxRelative float64) float64 {
	g := geometry{el: el, scale: jd.Scale}
	if cov == nil {
		st, err := ephemeris.StateAt(el, jd, nil)
		if err != nil {
			return math.NaN()
		}
		return maxRelative * st.Distance()
	}

	var jac [6]float64
	for k := 0; k < 6; k++ {
		h := elementStep(el, k)
		plus, minus := el, el
		setElement(&plus, k, getElement(el, k)+h)
		setElement(&minus, k, getElement(el, k)-h)
		gp, gm := g, g
		gp.el, gm.el = plus, minus
		span := getElement(plus, k) - getElement(minus, k)
		jac[k] = (gp.distance(jd.JD) - gm.distance(jd.JD)) / span
	}

	var variance float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			variance += jac[i] * cov[i][j] * jac[j]
		}
	}
	return math.Sqrt(math.Max(variance, 0))
}

func elementStep(el ephemeris.Elements, k int) float64 {
	switch k {
	case 0:
		return 1e-7 * math.Max(math.Abs(el.SemiMajorAxis), 1e-3)
	case 1:
		return 1e-8
	default:
		return 1e-7
	}
}

func getElement(el ephemeris.Elements, k int) float64 {
	switch k {
	case 0:
		return el.SemiMajorAxis
	case 1:
		return el.Eccentricity
	case 2:
		return el.Inclination
	case 3:
		return el.RAAN
	case 4:
		return el.ArgPeriapsis
	default:
		return el.MeanAnomaly
	}
}

func setElement(el *ephemeris.Elements, k int, v float64) {
	switch k {
	case 0:
		el.SemiMajorAxis = v
	case 1:
		el.Eccentricity = math.Max(v, 0)
	case 2:
		el.Inclination = v
	case 3:
		el.RAAN = v
	case 4:
		el.ArgPeriapsis = v
	default:
		el.MeanAnomaly = v
	}
}

// ImpactProbability is the ratio of the Earth's cross-section to the
// uncertainty area, evaluated only when the nominal miss distance lies
// within 3σ. The result is clamped to [0, 1].
func ImpactProbability(distanceAU, sigmaAU float64) float64 {
	if !(sigmaAU > 0) || distanceAU > 3*sigmaAU {
		return 0
	}
	p := (EarthRadiusAU * EarthRadiusAU) / (sigmaAU * sigmaAU)
	return math.Min(1, math.Max(0, p))
}
