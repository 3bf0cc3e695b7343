// Package approach finds close approaches between a small body and the
// Earth, computes the minimum orbit intersection distance and derives
// hazard indicators from both.
package approach

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/units"
)

var (
	ErrInvalidTimeRange   = errors.New("approach: end time precedes start time")
	ErrInvalidMaxDistance = errors.New("approach: maximum distance must be positive")
)

const (
	// EarthRadiusAU is the impact cross-section radius.
	EarthRadiusAU = units.EarthRadius / units.AU

	auPerDayToKmPerSec = units.AU / 1e3 / units.Day
)

type Options struct {
	StepDays            float64
	MaxDistanceAU       float64
	RefineToleranceDays float64
	MaxRefineIterations int
	// Uncertain supplies element uncertainties for σ_distance. Covariance,
	// when set, takes precedence over the per-element σ.
	Uncertain  *ephemeris.UncertainElements
	Covariance *Covariance
	Solver     *kepler.Solver
}

func DefaultOptions() Options {
	return Options{
		StepDays:            1.0,
		MaxDistanceAU:       0.05,
		RefineToleranceDays: 0.01,
		MaxRefineIterations: 50,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StepDays <= 0 {
		o.StepDays = d.StepDays
	}
	if o.RefineToleranceDays <= 0 {
		o.RefineToleranceDays = d.RefineToleranceDays
	}
	if o.MaxRefineIterations <= 0 {
		o.MaxRefineIterations = d.MaxRefineIterations
	}
	if o.Solver == nil {
		o.Solver = kepler.NewSolver()
	}
	return o
}

type CloseApproach struct {
	Epoch             ephemeris.JulianDate `json:"epoch"`
	DistanceAU        float64              `json:"distance_au"`
	DistanceKm        float64              `json:"distance_km"`
	DistanceLD        float64              `json:"distance_ld"`
	RelativeSpeedKmS  float64              `json:"relative_speed_km_s"`
	SigmaDistanceAU   float64              `json:"sigma_distance_au"`
	ImpactProbability float64              `json:"impact_probability"`
	RefineIterations  int                  `json:"refine_iterations"`
}

type Sample struct {
	JD         float64 `json:"jd"`
	DistanceAU float64 `json:"distance_au"`
}

type ScanResult struct {
	Approaches []CloseApproach `json:"approaches"`
	Samples    []Sample        `json:"samples"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// Closest returns the approach with the smallest distance.
func (r ScanResult) Closest() (CloseApproach, bool) {
	if len(r.Approaches) == 0 {
		return CloseApproach{}, false
	}
	best := r.Approaches[0]
	for _, a := range r.Approaches[1:] {
		if a.DistanceAU < best.DistanceAU {
			best = a
		}
	}
	return best, true
}

type geometry struct {
	el     ephemeris.Elements
	solver *kepler.Solver
	scale  ephemeris.TimeScale
}

// at returns the geocentric separation vector and the relative velocity.
func (g geometry) at(jd float64) (dynamo.Vec3, dynamo.Vec3, error) {
	t := ephemeris.NewJulianDate(jd, g.scale)
	obj, err := ephemeris.StateAt(g.el, t, g.solver)
	if err != nil {
		return dynamo.Vec3{}, dynamo.Vec3{}, err
	}
	earth := ephemeris.EarthHeliocentric(t)
	return obj.Position.Sub(earth.Position), obj.Velocity.Sub(earth.Velocity), nil
}

func (g geometry) distance(jd float64) float64 {
	d, _, err := g.at(jd)
	if err != nil {
		return math.NaN()
	}
	return d.Norm()
}

// FindCloseApproaches samples the Earth distance between start and end and
// refines every local minimum that comes within MaxDistanceAU.
func FindCloseApproaches(el ephemeris.Elements, start, end ephemeris.JulianDate, opts Options) (ScanResult, error) {
	if opts.MaxDistanceAU <= 0 {
		return ScanResult{}, fmt.Errorf("%w: %g", ErrInvalidMaxDistance, opts.MaxDistanceAU)
	}
	opts = opts.withDefaults()

	if err := el.Validate(); err != nil {
		return ScanResult{}, err
	}
	end, err := ephemeris.ConvertScale(end, start.Scale)
	if err != nil {
		return ScanResult{}, err
	}
	if end.JD < start.JD {
		return ScanResult{}, fmt.Errorf("%w: %s before %s", ErrInvalidTimeRange, end, start)
	}

	g := geometry{el: el, solver: opts.Solver, scale: start.Scale}

	n := int(math.Floor((end.JD-start.JD)/opts.StepDays)) + 1
	samples := make([]Sample, n)
	dynamo.ParallelFor(n, 64, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			jd := start.JD + float64(i)*opts.StepDays
			samples[i] = Sample{JD: jd, DistanceAU: g.distance(jd)}
		}
	})

	res := ScanResult{Samples: samples, Approaches: make([]CloseApproach, 0)}
	for i := 1; i+1 < n; i++ {
		prev, cur, next := samples[i-1].DistanceAU, samples[i].DistanceAU, samples[i+1].DistanceAU
		if !(cur < prev && cur <= next) {
			continue
		}

		jd, iters := g.refine(samples[i-1].JD, samples[i].JD, samples[i+1].JD, opts)
		sep, rel, err := g.at(jd)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		d := sep.Norm()
		if d > opts.MaxDistanceAU {
			continue
		}
		if iters >= opts.MaxRefineIterations {
			res.Warnings = append(res.Warnings, fmt.Sprintf("refinement near JD %.3f stopped at the iteration cap", jd))
		}

		ca := CloseApproach{
			Epoch:            ephemeris.NewJulianDate(jd, start.Scale),
			DistanceAU:       d,
			DistanceKm:       d * units.AU / 1e3,
			DistanceLD:       d * units.AU / units.LunarDistance,
			RelativeSpeedKmS: rel.Norm() * auPerDayToKmPerSec,
			RefineIterations: iters,
		}
		if opts.Uncertain != nil || opts.Covariance != nil {
			ca.SigmaDistanceAU = distanceSigma(el, opts, ca.Epoch)
			ca.ImpactProbability = ImpactProbability(d, ca.SigmaDistanceAU)
		}
		res.Approaches = append(res.Approaches, ca)
	}
	return res, nil
}

// refine shrinks the bracket [t0, t2] around t1 by comparing the midpoint
// with the quarter points. Each pass halves the bracket.
func (g geometry) refine(t0, t1, t2 float64, opts Options) (float64, int) {
	f1 := g.distance(t1)
	iters := 0
	for t2-t0 > opts.RefineToleranceDays && iters < opts.MaxRefineIterations {
		iters++
		q1 := 0.5 * (t0 + t1)
		q3 := 0.5 * (t1 + t2)
		fq1 := g.distance(q1)
		fq3 := g.distance(q3)

		switch {
		case fq1 < f1 && fq1 <= fq3:
			t2, t1, f1 = t1, q1, fq1
		case fq3 < f1:
			t0, t1, f1 = t1, q3, fq3
		default:
			t0, t2 = q1, q3
		}
	}
	return t1, iters
}
