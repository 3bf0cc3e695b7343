package impact

import "math"

// TorinoScale maps impact probability and energy (Mt) onto the 0..10
// Torino scale using a simplified zone table.
func TorinoScale(probability, energyMt float64) int {
	p, e := probability, energyMt
	switch {
	case !(p >= 1e-8) || !(e >= 1):
		return 0
	case p >= 0.99:
		switch {
		case e >= 1e5:
			return 10
		case e >= 1e3:
			return 9
		default:
			return 8
		}
	case p >= 1e-2:
		switch {
		case e >= 1e5:
			return 7
		case e >= 1e2:
			return 4
		default:
			return 3
		}
	case p >= 1e-4:
		switch {
		case e >= 1e5:
			return 6
		case e >= 1e3:
			return 5
		default:
			return 2
		}
	case p >= 1e-6 && e >= 1e3:
		return 2
	default:
		return 1
	}
}

// BackgroundImpactFrequency is the annual frequency of impacts at least as
// energetic as energyMt.
func BackgroundImpactFrequency(energyMt float64) float64 {
	return 0.03 * math.Pow(energyMt, -0.8)
}

// PalermoScale compares the impact probability with the background risk
// accumulated over the years until impact.
func PalermoScale(probability, energyMt, years float64) float64 {
	if probability <= 0 {
		return math.Inf(-1)
	}
	return math.Log10(probability / (BackgroundImpactFrequency(energyMt) * years))
}
