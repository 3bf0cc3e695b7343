package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if a[0] != 1 {
		t.Error("arithmetic mutated the receiver")
	}
}

func TestOrbitalStateRoundTrip(t *testing.T) {
	r := Vec3{X: 1, Y: 2, Z: 3}
	v := Vec3{X: -4, Y: 5, Z: -6}
	s := NewOrbitalState(r, v)

	if s.Position() != r {
		t.Errorf("Position() = %v, want %v", s.Position(), r)
	}
	if s.Velocity() != v {
		t.Errorf("Velocity() = %v, want %v", s.Velocity(), v)
	}
	if (State{1, 2}).Velocity() != (Vec3{}) {
		t.Error("short state should yield zero velocity")
	}
}

func TestVec3(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}

	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if x.Dot(y) != 0 {
		t.Error("orthogonal vectors should have zero dot product")
	}
	if n := (Vec3{X: 3, Y: 4}).Norm(); n != 5 {
		t.Errorf("Norm = %v, want 5", n)
	}
	if u := (Vec3{}).Unit(); u != (Vec3{}) {
		t.Errorf("Unit of zero = %v, want zero", u)
	}
	if math.Abs((Vec3{X: 2, Y: 2, Z: 1}).Unit().Norm()-1) > 1e-15 {
		t.Error("Unit should have length one")
	}
	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestSimulationError(t *testing.T) {
	var err error = &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrInvalidState}
	want := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		hits := make([]int32, n)
		var calls int32
		ParallelForWorkers(n, 10, 4, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
		if n == 0 && calls != 0 {
			t.Errorf("n=0 should not call fn, got %d calls", calls)
		}
	}
}
