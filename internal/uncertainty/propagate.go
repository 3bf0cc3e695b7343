package uncertainty

import (
	"errors"
	"fmt"
	"math"
)

// ErrDuplicateInput is returned when two inputs of a propagation share a name.
var ErrDuplicateInput = errors.New("uncertainty: duplicate input name")

type Distribution int

const (
	Normal Distribution = iota
	// Uniform treats the input uncertainty as the half-width of the interval.
	Uniform
)

func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	default:
		return "normal"
	}
}

type Input struct {
	Name         string
	Value        Value
	Distribution Distribution
}

func In(name string, v Value) Input { return Input{Name: name, Value: v} }

func UniformIn(name string, v Value) Input {
	return Input{Name: name, Value: v, Distribution: Uniform}
}

// Sigma returns the standard deviation implied by the input distribution.
func (in Input) Sigma() float64 {
	if in.Distribution == Uniform {
		return in.Value.Uncertainty / math.Sqrt(3)
	}
	return in.Value.Uncertainty
}

// Args is the evaluation point handed to a propagated function.
type Args struct {
	names  map[string]int
	values []float64
}

// Get returns the named argument. Asking for a name that was never passed as
// an input is a programming error and panics.
func (a Args) Get(name string) float64 {
	i, ok := a.names[name]
	if !ok {
		panic(fmt.Sprintf("uncertainty: unknown input %q", name))
	}
	return a.values[i]
}

func (a Args) At(i int) float64 { return a.values[i] }

func (a Args) Len() int { return len(a.values) }

type Func func(Args) float64

func index(inputs []Input) (map[string]int, error) {
	names := make(map[string]int, len(inputs))
	for i, in := range inputs {
		if _, dup := names[in.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateInput, in.Name)
		}
		names[in.Name] = i
	}
	return names, nil
}

func nominal(inputs []Input) []float64 {
	vals := make([]float64, len(inputs))
	for i, in := range inputs {
		vals[i] = in.Value.Value
	}
	return vals
}

// Propagate evaluates fn at the nominal inputs and combines the inputs' σ
// through first-order partials taken by symmetric finite differences.
// Inputs with zero σ do not contribute.
func Propagate(fn Func, inputs []Input, unit string) (Value, error) {
	names, err := index(inputs)
	if err != nil {
		return Value{}, err
	}

	x := nominal(inputs)
	y := fn(Args{names: names, values: x})

	var variance float64
	shifted := make([]float64, len(x))
	for i, in := range inputs {
		sigma := in.Sigma()
		if sigma == 0 {
			continue
		}
		h := 1e-6 * math.Max(math.Abs(x[i]), sigma)

		copy(shifted, x)
		shifted[i] = x[i] + h
		fp := fn(Args{names: names, values: shifted})
		shifted[i] = x[i] - h
		fm := fn(Args{names: names, values: shifted})

		d := (fp - fm) / (2 * h) * sigma
		variance += d * d
	}

	return Value{Value: y, Uncertainty: math.Sqrt(variance), Unit: unit}, nil
}

// PropagateAnalytic is Propagate with caller-supplied partial derivatives,
// one per input in order.
func PropagateAnalytic(fn Func, partials []Func, inputs []Input, unit string) (Value, error) {
	if len(partials) != len(inputs) {
		return Value{}, fmt.Errorf("uncertainty: %d partials for %d inputs", len(partials), len(inputs))
	}
	names, err := index(inputs)
	if err != nil {
		return Value{}, err
	}

	args := Args{names: names, values: nominal(inputs)}
	var variance float64
	for i, in := range inputs {
		sigma := in.Sigma()
		if sigma == 0 {
			continue
		}
		d := partials[i](args) * sigma
		variance += d * d
	}

	return Value{Value: fn(args), Uncertainty: math.Sqrt(variance), Unit: unit}, nil
}

// MustPropagate is Propagate for call sites whose input names are fixed
// literals; a duplicate name panics.
func MustPropagate(fn Func, inputs []Input, unit string) Value {
	v, err := Propagate(fn, inputs, unit)
	if err != nil {
		panic(err)
	}
	return v
}
