package approach

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/units"
)

type MOIDOptions struct {
	ResolutionDeg float64
	MaxIterations int
	// StepFloor is the hill-climb step, in radians, below which the search
	// counts as converged.
	StepFloor float64
	Workers   int
}

func DefaultMOIDOptions() MOIDOptions {
	return MOIDOptions{
		ResolutionDeg: 1.0,
		MaxIterations: 2000,
		StepFloor:     1e-9,
		Workers:       runtime.GOMAXPROCS(0),
	}
}

type MOIDResult struct {
	MOIDAU           float64     `json:"moid_au"`
	MOIDKm           float64     `json:"moid_km"`
	TrueAnomalyBody  float64     `json:"true_anomaly_body"`
	TrueAnomalyEarth float64     `json:"true_anomaly_earth"`
	PositionBody     dynamo.Vec3 `json:"position_body"`
	PositionEarth    dynamo.Vec3 `json:"position_earth"`
	Iterations       int         `json:"iterations"`
	Converged        bool        `json:"converged"`
}

// anomalyRange is the interval of true anomaly the orbit actually covers.
func anomalyRange(el ephemeris.Elements) (lo, hi float64) {
	if el.Kind() == kepler.Elliptical {
		return 0, 2 * math.Pi
	}
	// Stay clear of the asymptote where the radius diverges.
	lim := kepler.AsymptoteAngle(el.Eccentricity) - 1e-3
	return -lim, lim
}

// bound keeps a trial anomaly on the orbit: elliptical anomalies wrap,
// hyperbolic ones are clamped inside the asymptotes.
func bound(el ephemeris.Elements, v, lo, hi float64) float64 {
	if el.Kind() == kepler.Elliptical {
		return kepler.NormalizeAngle(v)
	}
	return math.Max(lo, math.Min(hi, v))
}

// ComputeMOID finds the minimum distance between two orbits, treated as
// fixed curves. A coarse grid over both true anomalies seeds a hill-climb
// with step halving.
func ComputeMOID(ctx context.Context, el, earth ephemeris.Elements, opts MOIDOptions) (MOIDResult, error) {
	d := DefaultMOIDOptions()
	if opts.ResolutionDeg <= 0 {
		opts.ResolutionDeg = d.ResolutionDeg
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = d.MaxIterations
	}
	if opts.StepFloor <= 0 {
		opts.StepFloor = d.StepFloor
	}
	if opts.Workers <= 0 {
		opts.Workers = d.Workers
	}
	if err := el.Validate(); err != nil {
		return MOIDResult{}, err
	}
	if err := earth.Validate(); err != nil {
		return MOIDResult{}, err
	}

	res := units.Deg2Rad(opts.ResolutionDeg)
	bLo, bHi := anomalyRange(el)
	eLo, eHi := anomalyRange(earth)
	rows := int(math.Ceil((bHi-bLo)/res)) + 1
	cols := int(math.Ceil((eHi-eLo)/res)) + 1

	earthPts := make([]dynamo.Vec3, cols)
	for j := range earthPts {
		earthPts[j] = ephemeris.PositionAtTrueAnomaly(earth, math.Min(eLo+float64(j)*res, eHi))
	}

	rowBest := make([]float64, rows)
	rowCol := make([]int, rows)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < rows; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := ephemeris.PositionAtTrueAnomaly(el, math.Min(bLo+float64(i)*res, bHi))
			best, col := math.Inf(1), 0
			for j, q := range earthPts {
				if dd := p.DistanceTo(q); dd < best {
					best, col = dd, j
				}
			}
			rowBest[i], rowCol[i] = best, col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MOIDResult{}, err
	}

	bi := 0
	for i := range rowBest {
		if rowBest[i] < rowBest[bi] {
			bi = i
		}
	}

	u := math.Min(bLo+float64(bi)*res, bHi)
	v := math.Min(eLo+float64(rowCol[bi])*res, eHi)
	dist := func(u, v float64) float64 {
		return ephemeris.PositionAtTrueAnomaly(el, u).DistanceTo(ephemeris.PositionAtTrueAnomaly(earth, v))
	}

	best := dist(u, v)
	step := res
	iters := 0
	converged := false
	for iters < opts.MaxIterations {
		if step < opts.StepFloor {
			converged = true
			break
		}
		iters++

		bu, bv, bd := u, v, best
		for du := -1; du <= 1; du++ {
			for dv := -1; dv <= 1; dv++ {
				if du == 0 && dv == 0 {
					continue
				}
				nu := bound(el, u+float64(du)*step, bLo, bHi)
				nv := bound(earth, v+float64(dv)*step, eLo, eHi)
				if dd := dist(nu, nv); dd < bd {
					bu, bv, bd = nu, nv, dd
				}
			}
		}
		if bd < best {
			u, v, best = bu, bv, bd
		} else {
			step /= 2
		}
	}

	return MOIDResult{
		MOIDAU:           best,
		MOIDKm:           best * units.AU / 1e3,
		TrueAnomalyBody:  u,
		TrueAnomalyEarth: v,
		PositionBody:     ephemeris.PositionAtTrueAnomaly(el, u),
		PositionEarth:    ephemeris.PositionAtTrueAnomaly(earth, v),
		Iterations:       iters,
		Converged:        converged,
	}, nil
}
