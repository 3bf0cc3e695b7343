// Package uncertainty carries a nominal value together with its standard
// uncertainty and propagates both through arithmetic and arbitrary
// functions.
package uncertainty

import (
	"fmt"
	"math"
)

// Value is a measured or derived quantity. Uncertainty is one standard
// deviation and is never negative.
type Value struct {
	Value       float64 `json:"value"`
	Uncertainty float64 `json:"uncertainty"`
	Unit        string  `json:"unit"`
	Source      string  `json:"source,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Dimensionless is the unit of pure numbers, such as the result of Exp or
// Log10.
const Dimensionless = ""

func New(v, sigma float64, unit string) Value {
	return Value{Value: v, Uncertainty: math.Abs(sigma), Unit: unit}
}

// Exact returns a value with zero uncertainty.
func Exact(v float64, unit string) Value {
	return Value{Value: v, Unit: unit}
}

func (v Value) WithSource(source string) Value {
	v.Source = source
	return v
}

func (v Value) WithDescription(desc string) Value {
	v.Description = desc
	return v
}

func (v Value) WithUnit(unit string) Value {
	v.Unit = unit
	return v
}

// RelativeUncertainty is σ/|v|, or 0 for a zero nominal value.
func (v Value) RelativeUncertainty() float64 {
	if v.Value == 0 {
		return 0
	}
	return v.Uncertainty / math.Abs(v.Value)
}

func (v Value) IsExact() bool { return v.Uncertainty == 0 }

// IsFinite reports whether both the nominal value and σ are finite.
func (v Value) IsFinite() bool {
	return !math.IsNaN(v.Value) && !math.IsInf(v.Value, 0) &&
		!math.IsNaN(v.Uncertainty) && !math.IsInf(v.Uncertainty, 0)
}

// Bounds returns value ± k·σ.
func (v Value) Bounds(k float64) (lo, hi float64) {
	return v.Value - k*v.Uncertainty, v.Value + k*v.Uncertainty
}

func (v Value) String() string {
	unit := ""
	if v.Unit != "" {
		unit = " " + v.Unit
	}
	if v.Uncertainty == 0 {
		return fmt.Sprintf("%.6g%s", v.Value, unit)
	}
	return fmt.Sprintf("%.6g ± %.3g%s", v.Value, v.Uncertainty, unit)
}
