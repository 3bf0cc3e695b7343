package uncertainty

import "math"

// Add and Sub combine absolute uncertainties in quadrature.
func Add(a, b Value) Value {
	return Value{Value: a.Value + b.Value, Uncertainty: math.Hypot(a.Uncertainty, b.Uncertainty), Unit: a.Unit}
}

func Sub(a, b Value) Value {
	return Value{Value: a.Value - b.Value, Uncertainty: math.Hypot(a.Uncertainty, b.Uncertainty), Unit: a.Unit}
}

func Scale(a Value, k float64) Value {
	return Value{Value: a.Value * k, Uncertainty: math.Abs(k) * a.Uncertainty, Unit: a.Unit}
}

func Sum(values ...Value) Value {
	if len(values) == 0 {
		return Value{}
	}
	out := Value{Unit: values[0].Unit}
	var sq float64
	for _, v := range values {
		out.Value += v.Value
		sq += v.Uncertainty * v.Uncertainty
	}
	out.Uncertainty = math.Sqrt(sq)
	return out
}

type Term struct {
	Coefficient float64
	Value       Value
}

// LinearCombination evaluates Σ cᵢxᵢ with σ = sqrt(Σ(cᵢσᵢ)²).
func LinearCombination(terms []Term, unit string) Value {
	out := Value{Unit: unit}
	var sq float64
	for _, t := range terms {
		out.Value += t.Coefficient * t.Value.Value
		s := t.Coefficient * t.Value.Uncertainty
		sq += s * s
	}
	out.Uncertainty = math.Sqrt(sq)
	return out
}

// Mul uses first-order partials, which is the relative-quadrature rule for
// non-zero operands and stays finite when either nominal value is zero.
func Mul(a, b Value, unit string) Value {
	return Value{
		Value:       a.Value * b.Value,
		Uncertainty: math.Hypot(b.Value*a.Uncertainty, a.Value*b.Uncertainty),
		Unit:        unit,
	}
}

// Div divides a by b. A zero divisor yields ±Inf or NaN like plain float
// division does.
func Div(a, b Value, unit string) Value {
	q := a.Value / b.Value
	return Value{
		Value:       q,
		Uncertainty: math.Hypot(a.Uncertainty/b.Value, q*b.Uncertainty/b.Value),
		Unit:        unit,
	}
}

func Pow(a Value, p float64, unit string) Value {
	v := math.Pow(a.Value, p)
	var sigma float64
	if a.Uncertainty != 0 {
		sigma = math.Abs(p * math.Pow(a.Value, p-1) * a.Uncertainty)
	}
	return Value{Value: v, Uncertainty: sigma, Unit: unit}
}

func Sqrt(a Value, unit string) Value { return Pow(a, 0.5, unit) }

func Cbrt(a Value, unit string) Value {
	v := math.Cbrt(a.Value)
	var sigma float64
	if a.Uncertainty != 0 {
		sigma = math.Abs(a.Uncertainty / (3 * v * v))
	}
	return Value{Value: v, Uncertainty: sigma, Unit: unit}
}

// Exp and Log10 treat their argument as a pure number; the result is
// Dimensionless whatever unit the argument carried.
func Exp(a Value) Value {
	v := math.Exp(a.Value)
	return Value{Value: v, Uncertainty: v * a.Uncertainty, Unit: Dimensionless}
}

func Log10(a Value) Value {
	var sigma float64
	if a.Uncertainty != 0 {
		sigma = math.Abs(a.Uncertainty / (a.Value * math.Ln10))
	}
	return Value{Value: math.Log10(a.Value), Uncertainty: sigma, Unit: Dimensionless}
}
