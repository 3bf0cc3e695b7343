package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/neoshield/internal/dynamo"
)

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	x := circularOrbit()
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(twoBody{}, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	x0 := circularOrbit()

	initialEnergy := twoBody{}.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 5000; i++ {
		x = integrator.Step(twoBody{}, x, float64(i)*dt, dt)
	}

	drift := math.Abs((twoBody{}.Energy(x) - initialEnergy) / initialEnergy)
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()

	x, newDt, err := integrator.StepAdaptive(twoBody{}, circularOrbit(), 0, 0.1, 1e-8)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
}

func TestRK45_RejectsNonPositiveTolerance(t *testing.T) {
	_, _, err := NewRK45().StepAdaptive(twoBody{}, dynamo.State{1, 0, 0, 0, 1, 0}, 0, 0.1, 0)
	if err == nil {
		t.Error("expected error for zero tolerance")
	}
}

func TestRK45_StepSubdividesLongStep(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		want dynamo.State
	}{
		{"half orbit", math.Pi, dynamo.State{-1, 0, 0, 0, -1, 0}},
		{"full orbit", 2 * math.Pi, dynamo.State{1, 0, 0, 0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := NewRK45().Step(twoBody{}, circularOrbit(), 0, tt.dt)
			if d := x.Sub(tt.want).Norm(); d > 1e-6 {
				t.Errorf("state off by %e after one step of %.3f", d, tt.dt)
			}
		})
	}
}

func TestRK45_ToleranceDefault(t *testing.T) {
	if NewRK45WithTolerance(-1).tol != DefaultRK45Tolerance {
		t.Error("non-positive tolerance should fall back to the default")
	}
}
