package approach

import (
	"fmt"
	"math"
)

const (
	PHAMaxMOIDAU    = 0.05
	PHAMaxMagnitude = 22.0
	PHAMinDiameterM = 140.0
	DefaultAlbedo   = 0.14
)

type Hazard struct {
	PotentiallyHazardous bool   `json:"potentially_hazardous"`
	Reason               string `json:"reason"`
}

// DiameterFromMagnitude estimates the diameter in metres from the absolute
// magnitude H and geometric albedo.
func DiameterFromMagnitude(h, albedo float64) float64 {
	if albedo <= 0 {
		albedo = DefaultAlbedo
	}
	return 1329e3 / math.Sqrt(albedo) * math.Pow(10, -h/5)
}

// ClassifyHazard applies the PHA definition. Size is judged by the absolute
// magnitude when h > 0, otherwise by diameterM.
func ClassifyHazard(moidAU, h, diameterM float64) Hazard {
	if moidAU > PHAMaxMOIDAU {
		return Hazard{Reason: fmt.Sprintf("MOID %.4f AU exceeds %.2f AU", moidAU, PHAMaxMOIDAU)}
	}
	switch {
	case h > 0 && h <= PHAMaxMagnitude:
		return Hazard{PotentiallyHazardous: true, Reason: fmt.Sprintf("MOID %.4f AU and H %.1f", moidAU, h)}
	case h > 0:
		return Hazard{Reason: fmt.Sprintf("H %.1f fainter than %.0f", h, PHAMaxMagnitude)}
	case diameterM >= PHAMinDiameterM:
		return Hazard{PotentiallyHazardous: true, Reason: fmt.Sprintf("MOID %.4f AU and diameter %.0f m", moidAU, diameterM)}
	default:
		return Hazard{Reason: fmt.Sprintf("diameter %.0f m below %.0f m", diameterM, PHAMinDiameterM)}
	}
}
