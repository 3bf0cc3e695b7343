package impact

import (
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

// Validity describes how far a result can be trusted. Inputs outside the
// calibrated range add warnings; they never abort the calculation.
type Validity struct {
	IsValid     bool     `json:"is_valid"`
	Warnings    []string `json:"warnings,omitempty"`
	Limitations []string `json:"limitations,omitempty"`
}

const (
	MinEnergy   = 1e10 // J
	MaxEnergy   = 1e24
	MinVelocity = 5.0 // km/s
	MaxVelocity = 72.0
	MinAngle    = 15.0 // deg
	MaxAngle    = 90.0
)

type validator struct {
	warnings []string
}

func (v *validator) warnf(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) finite(name string, x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		v.warnf("%s is not finite (%g)", name, x)
		return false
	}
	return true
}

// outputs warns once per derived value whose nominal or σ is not finite.
func (v *validator) outputs(names []string, vals ...uncertainty.Value) {
	for i, x := range vals {
		if !x.IsFinite() {
			v.warnf("%s is not finite (%g ± %g)", names[i], x.Value, x.Uncertainty)
		}
	}
}

func (v *validator) energy(e float64) {
	if !v.finite("energy", e) {
		return
	}
	if e < MinEnergy || e > MaxEnergy {
		v.warnf("energy %.3g J outside calibrated range [%.0e, %.0e] J", e, MinEnergy, MaxEnergy)
	}
}

func (v *validator) velocity(kms float64) {
	if !v.finite("velocity", kms) {
		return
	}
	if kms < MinVelocity || kms > MaxVelocity {
		v.warnf("velocity %.3g km/s outside [%.0f, %.0f] km/s", kms, MinVelocity, MaxVelocity)
	}
}

func (v *validator) angle(deg float64) {
	if !v.finite("impact angle", deg) {
		return
	}
	if deg < MinAngle || deg > MaxAngle {
		v.warnf("impact angle %.3g° outside [%.0f, %.0f]°", deg, MinAngle, MaxAngle)
	}
}

func (v *validator) result(limitations ...string) Validity {
	return Validity{
		IsValid:     len(v.warnings) == 0,
		Warnings:    v.warnings,
		Limitations: limitations,
	}
}
