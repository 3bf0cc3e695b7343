package integrators

import (
	"testing"

	"github.com/san-kum/neoshield/internal/dynamo"
)

func benchmarkStepper(b *testing.B, integ dynamo.Integrator) {
	x := circularOrbit()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(twoBody{}, x, 0, 0.001)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmarkStepper(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)      { benchmarkStepper(b, NewRK4()) }
func BenchmarkRK45(b *testing.B)     { benchmarkStepper(b, NewRK45()) }
func BenchmarkVerlet(b *testing.B)   { benchmarkStepper(b, NewVerlet()) }
func BenchmarkLeapfrog(b *testing.B) { benchmarkStepper(b, NewLeapfrog()) }
