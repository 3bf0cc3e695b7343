// Package kepler solves Kepler's equation for elliptical, parabolic and
// hyperbolic orbits and converts between the anomalies.
package kepler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrNegativeEccentricity = errors.New("kepler: eccentricity must be non-negative")

const (
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 100
	// ParabolicBand is the distance from e = 1 inside which an orbit is
	// treated as parabolic.
	ParabolicBand = 1e-10
)

type Kind int

const (
	Elliptical Kind = iota
	Parabolic
	Hyperbolic
)

func (k Kind) String() string {
	switch k {
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	default:
		return "elliptical"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "elliptical":
		*k = Elliptical
	case "parabolic":
		*k = Parabolic
	case "hyperbolic":
		*k = Hyperbolic
	default:
		return fmt.Errorf("kepler: unknown orbit kind %q", s)
	}
	return nil
}

func Classify(e float64) Kind {
	switch {
	case math.Abs(e-1) < ParabolicBand:
		return Parabolic
	case e > 1:
		return Hyperbolic
	default:
		return Elliptical
	}
}

// Solution holds the anomalies for one mean anomaly. For elliptical orbits
// EccentricAnomaly is E, for hyperbolic orbits it is H, and for parabolic
// orbits it is NaN.
type Solution struct {
	Kind             Kind     `json:"kind"`
	MeanAnomaly      float64  `json:"mean_anomaly"`
	EccentricAnomaly float64  `json:"eccentric_anomaly"`
	TrueAnomaly      float64  `json:"true_anomaly"`
	Iterations       int      `json:"iterations"`
	Converged        bool     `json:"converged"`
	Residual         float64  `json:"residual"`
	Warnings         []string `json:"warnings,omitempty"`
}

type Solver struct {
	Tolerance     float64
	MaxIterations int
}

func NewSolver() *Solver {
	return &Solver{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

func (s *Solver) params() (float64, int) {
	tol, n := DefaultTolerance, DefaultMaxIterations
	if s != nil {
		if s.Tolerance > 0 {
			tol = s.Tolerance
		}
		if s.MaxIterations > 0 {
			n = s.MaxIterations
		}
	}
	return tol, n
}

// Solve returns the anomalies for mean anomaly M (radians) and
// eccentricity e. Failure to converge is reported in the solution, not as
// an error.
func (s *Solver) Solve(M, e float64) (Solution, error) {
	if e < 0 {
		return Solution{}, fmt.Errorf("%w: %g", ErrNegativeEccentricity, e)
	}

	var sol Solution
	switch Classify(e) {
	case Parabolic:
		sol = s.solveParabolic(M)
	case Hyperbolic:
		sol = s.solveHyperbolic(M, e)
	default:
		sol = s.solveElliptical(M, e)
	}

	tol, _ := s.params()
	if !sol.Converged {
		sol.Warnings = append(sol.Warnings, fmt.Sprintf("%s solver did not converge in %d iterations", sol.Kind, sol.Iterations))
	}
	if math.Abs(sol.Residual) > math.Max(tol, 1e-9) {
		sol.Warnings = append(sol.Warnings, fmt.Sprintf("residual %.3e exceeds tolerance", sol.Residual))
	}
	return sol, nil
}

func (s *Solver) solveElliptical(M, e float64) Solution {
	tol, maxIter := s.params()
	M = NormalizeAngle(M)
	sol := Solution{Kind: Elliptical, MeanAnomaly: M}

	if e == 0 {
		sol.EccentricAnomaly = M
		sol.TrueAnomaly = M
		sol.Converged = true
		return sol
	}

	var E float64
	if e < 0.8 {
		E = M + e*math.Sin(M)
	} else if M < math.Pi {
		E = M + e
	} else {
		E = M - e
	}

	// Near-parabolic orbits cannot reach the nominal tolerance.
	eff := math.Max(tol, 1e-15/(1-e))

	for i := 0; i < maxIter; i++ {
		f := E - e*math.Sin(E) - M
		fp := 1 - e*math.Cos(E)
		d := f / fp
		if math.Abs(d) > 0.5 {
			d *= 0.5
		}
		E -= d
		sol.Iterations = i + 1
		if math.Abs(d) < eff {
			sol.Converged = true
			break
		}
	}

	sol.EccentricAnomaly = E
	sol.TrueAnomaly = NormalizeAngle(TrueFromEccentric(E, e))
	sol.Residual = E - e*math.Sin(E) - M
	return sol
}

func (s *Solver) solveHyperbolic(M, e float64) Solution {
	tol, maxIter := s.params()
	sol := Solution{Kind: Hyperbolic, MeanAnomaly: M}

	var H float64
	if M != 0 {
		H = math.Copysign(math.Log(2*math.Abs(M)/e+1.8), M)
	}

	for i := 0; i < maxIter; i++ {
		f := e*math.Sinh(H) - H - M
		fp := e*math.Cosh(H) - 1
		d := f / fp
		if math.Abs(d) > 1 {
			d = math.Copysign(1, d)
		}
		H -= d
		sol.Iterations = i + 1
		if math.Abs(d) < tol*math.Max(1, math.Abs(H)) {
			sol.Converged = true
			break
		}
	}

	sol.EccentricAnomaly = H
	sol.TrueAnomaly = TrueFromHyperbolic(H, e)
	sol.Residual = e*math.Sinh(H) - H - M
	return sol
}

// solveParabolic solves Barker's equation s + s³/3 = M for s = tan(ν/2).
func (s *Solver) solveParabolic(M float64) Solution {
	tol, maxIter := s.params()
	sol := Solution{Kind: Parabolic, MeanAnomaly: M, EccentricAnomaly: math.NaN()}

	x := M
	for i := 0; i < maxIter; i++ {
		next := (M + 2*x*x*x/3) / (1 + x*x)
		sol.Iterations = i + 1
		if math.Abs(next-x) < tol*math.Max(1, math.Abs(next)) {
			x = next
			sol.Converged = true
			break
		}
		x = next
	}

	sol.TrueAnomaly = 2 * math.Atan(x)
	sol.Residual = x + x*x*x/3 - M
	return sol
}
