package kepler

import "testing"

func BenchmarkSolveElliptical(b *testing.B) {
	s := NewSolver()
	for i := 0; i < b.N; i++ {
		_, _ = s.Solve(float64(i%628)/100, 0.7)
	}
}

func BenchmarkSolveHyperbolic(b *testing.B) {
	s := NewSolver()
	for i := 0; i < b.N; i++ {
		_, _ = s.Solve(float64(i%1000)/10, 2.5)
	}
}
