package scenario

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/optim"
)

// Sweepable asteroid parameters.
const (
	SweepDiameter = "diameter"
	SweepVelocity = "velocity"
	SweepAngle    = "angle"
)

var SweepParams = []string{SweepDiameter, SweepVelocity, SweepAngle}

// ParameterSweep varies one asteroid parameter over a linear range.
type ParameterSweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

type SweepResult struct {
	ParamValue      float64 `json:"param_value"`
	EnergyMt        float64 `json:"energy_mt"`
	CraterDiameterM float64 `json:"crater_diameter_m"`
	FireballRadiusM float64 `json:"fireball_radius_m"`
	Magnitude       float64 `json:"magnitude"`
	TorinoScale     int     `json:"torino_scale"`
	Warnings        int     `json:"warnings"`
}

func (p ParameterSweep) apply(sc Scenario, v float64) (Scenario, error) {
	switch p.Param {
	case SweepDiameter:
		sc.Asteroid.DiameterM = v
		sc.Asteroid.MassKg = 0
	case SweepVelocity:
		sc.Asteroid.VelocityKmS = v
	case SweepAngle:
		sc.Asteroid.ImpactAngleDeg = v
	default:
		return sc, fmt.Errorf("%w: cannot sweep %q", ErrInvalidScenario, p.Param)
	}
	return sc, nil
}

// RunSweep evaluates the impact consequences of sc at each point of the
// sweep. The orbit and deflection analyses are not repeated.
func (r *Runner) RunSweep(ctx context.Context, sc *Scenario, sweep ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", ErrInvalidScenario)
	}
	if _, err := sweep.apply(*sc, sweep.Min); err != nil {
		return nil, err
	}
	values := optim.Linspace(sweep.Min, sweep.Max, sweep.Steps)
	results := make([]SweepResult, len(values))

	g, ctx := errgroup.WithContext(ctx)
	if r.cfg.Workers > 0 {
		g.SetLimit(r.cfg.Workers)
	}
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			point, err := sweep.apply(*sc, v)
			if err != nil {
				return err
			}
			if err := point.Validate(); err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
			}
			in, err := newImpactInputs(point.Asteroid)
			if err != nil {
				return err
			}
			c := in.consequences(nil)
			mt := impact.Megatons(c.energy).Value
			results[i] = SweepResult{
				ParamValue:      v,
				EnergyMt:        mt,
				CraterDiameterM: c.crater.FinalDiameter.Value,
				FireballRadiusM: c.blast.FireballRadius.Value,
				Magnitude:       c.seismic.MomentMagnitude.Value,
				TorinoScale:     impact.TorinoScale(point.Impact.Probability, mt),
				Warnings: len(c.crater.Validity.Warnings) +
					len(c.blast.Validity.Warnings) +
					len(c.seismic.Validity.Warnings),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.log.Info(ctx, "sweep finished")
	return results, nil
}
