package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// dormandPrince is the Butcher tableau of the 5(4) pair. Row 6 of a equals
// the fifth-order weights, so the last stage input is the new state.
var dormandPrince = struct {
	c [7]float64
	a [7][6]float64
	e [7]float64 // fifth minus fourth order weights
}{
	c: [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
	a: [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	e: [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	},
}

const (
	DefaultRK45Tolerance = 1e-10
	// minSubstep bounds how finely Step may split one outer step.
	minSubstep = 1e-6
)

// RK45 is the Dormand-Prince embedded pair. Step covers dt with as many
// error-controlled substeps as the tolerance needs, so a fixed outer step
// such as one day stays accurate through close planetary encounters.
// StepAdaptive takes a single trial step and suggests the next size.
type RK45 struct {
	tol      float64
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return NewRK45WithTolerance(DefaultRK45Tolerance)
}

func NewRK45WithTolerance(tol float64) *RK45 {
	if tol <= 0 {
		tol = DefaultRK45Tolerance
	}
	return &RK45{tol: tol, safety: 0.9, minScale: 0.2, maxScale: 10.0}
}

func (r *RK45) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	remaining, h := dt, dt
	for remaining > dt*1e-12 {
		h = math.Min(h, remaining)
		next, errNorm := r.trial(sys, x, t, h)
		ratio := errNorm / r.tol
		if ratio <= 1 || math.IsNaN(ratio) || h <= dt*minSubstep {
			x, t, remaining = next, t+h, remaining-h
		}
		h = r.resize(h, ratio)
	}
	return x
}

func (r *RK45) StepAdaptive(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if tol <= 0 {
		return nil, dt, fmt.Errorf("rk45: tolerance must be positive, got %g", tol)
	}
	next, errNorm := r.trial(sys, x, t, dt)
	return next, r.resize(dt, errNorm/tol), nil
}

// trial advances x by h and returns the new state with the largest
// component error relative to the state's scale.
func (r *RK45) trial(sys dynamo.System, x dynamo.State, t, h float64) (dynamo.State, float64) {
	n := len(x)
	var k [7]dynamo.State
	k[0] = sys.Derive(x, t)

	var stage dynamo.State
	for s := 1; s < 7; s++ {
		stage = make(dynamo.State, n)
		for i := range stage {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dormandPrince.a[s][j] * k[j][i]
			}
			stage[i] = x[i] + h*sum
		}
		k[s] = sys.Derive(stage, t+dormandPrince.c[s]*h)
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s := range k {
			est += dormandPrince.e[s] * k[s][i]
		}
		scale := math.Abs(x[i]) + math.Abs(h*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(h*est)/scale)
	}
	return stage, errMax
}

func (r *RK45) resize(h, ratio float64) float64 {
	switch {
	case math.IsNaN(ratio):
		return h
	case ratio > 1:
		return h * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		return h * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		return h * r.maxScale
	}
}
