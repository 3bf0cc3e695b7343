package scenario

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neoshield/internal/analysis"
	"github.com/san-kum/neoshield/internal/approach"
	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/logging"
	"github.com/san-kum/neoshield/internal/metrics"
	"github.com/san-kum/neoshield/internal/observability"
	"github.com/san-kum/neoshield/internal/perturbation"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

const (
	defaultSpanDays    = 3652.5
	defaultLeadDays    = 3652.5
	maxRecordedSamples = 400
)

type Runner struct {
	cfg      config.Config
	registry *Registry
	log      logging.Logger
	metrics  *observability.AnalysisCollector
	now      func() time.Time
}

type Option func(*Runner)

func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics records per-analysis counts and durations on c.
func WithMetrics(c *observability.AnalysisCollector) Option {
	return func(r *Runner) { r.metrics = c }
}

func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      logging.Noop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := r.registry.GetIntegrator(cfg.Integrator); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) solver() *kepler.Solver {
	return &kepler.Solver{Tolerance: r.cfg.Kepler.Tolerance, MaxIterations: r.cfg.Kepler.MaxIterations}
}

func (r *Runner) moidOptions() approach.MOIDOptions {
	opts := approach.DefaultMOIDOptions()
	opts.ResolutionDeg = r.cfg.MOID.ResolutionDeg
	opts.MaxIterations = r.cfg.MOID.MaxIterations
	if r.cfg.Workers > 0 {
		opts.Workers = r.cfg.Workers
	}
	return opts
}

// run carries the state of one scenario evaluation.
type run struct {
	*Runner
	sc     *Scenario
	rep    *Report
	in     impactInputs
	el     *ephemeris.Elements
	uel    ephemeris.UncertainElements
	log    logging.Logger
	target deflection.Asteroid
}

// stage times one analysis, logs it and feeds the collector. fn returns the
// number of warnings it produced.
func (x *run) stage(ctx context.Context, name string, fn func() (int, error)) error {
	if !x.sc.Enabled(name) {
		return nil
	}
	start := time.Now()
	n, err := fn()
	took := time.Since(start)
	if err != nil {
		x.log.Error(ctx, "analysis failed", logging.String("analysis", name), logging.Err(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	x.metrics.Observe(name, took, n)
	x.log.Debug(ctx, "analysis done",
		logging.String("analysis", name),
		logging.Duration("took", took),
		logging.Int("warnings", n))
	return nil
}

// Run evaluates every enabled analysis of sc and returns the combined
// report. Validity problems become warnings; only malformed input and
// cancellation are errors.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	ctx, id := logging.EnsureRunID(ctx)
	ctx, log := logging.WithRunLogger(ctx, r.log.With(logging.String("scenario", sc.Name)))

	in, err := newImpactInputs(sc.Asteroid)
	if err != nil {
		return nil, err
	}
	x := &run{
		Runner: r,
		sc:     sc,
		in:     in,
		log:    log,
		rep: &Report{
			ID:          id,
			Scenario:    sc.Name,
			Description: sc.Description,
			CreatedAt:   r.now().UTC(),
		},
	}
	log.Info(ctx, "scenario started")
	start := time.Now()

	stages := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{Energy, x.energy},
		{MOID, x.moid},
		{Approaches, x.approaches},
		{Propagation, x.propagation},
		{Crater, x.crater},
		{Blast, x.blast},
		{Seismic, x.seismic},
		{Kinetic, x.kinetic},
		{Nuclear, x.nuclear},
		{Solar, x.solar},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fn := s.fn
		if err := x.stage(ctx, s.name, func() (int, error) { return fn(ctx) }); err != nil {
			return nil, err
		}
	}
	x.scales()
	if err := x.applyDeflection(ctx); err != nil {
		return nil, err
	}

	x.rep.Duration = time.Since(start)
	log.Info(ctx, "scenario finished",
		logging.Duration("took", x.rep.Duration),
		logging.Int("warnings", x.rep.WarningCount()),
		logging.Int("torino", x.rep.TorinoScale))
	return x.rep, nil
}

// RunBatch runs scenarios concurrently, bounded by the configured worker
// count. Reports come back in input order.
func (r *Runner) RunBatch(ctx context.Context, scs []*Scenario) ([]*Report, error) {
	reports := make([]*Report, len(scs))
	g, ctx := errgroup.WithContext(ctx)
	if r.cfg.Workers > 0 {
		g.SetLimit(r.cfg.Workers)
	}
	for i, sc := range scs {
		i, sc := i, sc
		g.Go(func() error {
			rep, err := r.Run(ctx, sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (x *run) orbit() (*ephemeris.Elements, error) {
	if x.el != nil {
		return x.el, nil
	}
	o := x.sc.Asteroid.Orbit
	if o == nil {
		return nil, fmt.Errorf("%w: analysis needs an orbit", ErrInvalidScenario)
	}
	x.uel = OrbitElements(o)
	el := x.uel.Nominal()
	if err := el.Validate(); err != nil {
		return nil, err
	}
	x.el = &el
	x.rep.Elements = x.el
	return x.el, nil
}

func (x *run) energy(ctx context.Context) (int, error) {
	x.rep.Mass = x.in.mass()
	x.rep.Energy = x.in.energy()
	x.rep.EnergyMt = impact.Megatons(x.rep.Energy)
	if n := x.cfg.MonteCarloSamples; n > 0 {
		inputs, fn := x.in.energyInputs()
		mc, err := uncertainty.MonteCarlo(fn, inputs, n, x.cfg.Seed, "J")
		if err != nil {
			return 0, err
		}
		x.rep.EnergyMC = &mc
	}
	if !x.rep.Energy.IsFinite() {
		x.rep.Warnings = append(x.rep.Warnings, "impact energy is not finite")
		return 1, nil
	}
	return 0, nil
}

func (x *run) moid(ctx context.Context) (int, error) {
	el, err := x.orbit()
	if err != nil {
		return 0, err
	}
	st, err := ephemeris.StateAt(*el, el.Epoch, x.solver())
	if err != nil {
		return 0, err
	}
	if !st.Anomaly.Converged {
		x.metrics.ObserveKeplerNonConverged()
	}
	x.rep.InitialState = &st

	res, err := approach.ComputeMOID(ctx, *el, ephemeris.EarthElements(), x.moidOptions())
	if err != nil {
		return 0, err
	}
	x.rep.MOID = &res
	h := approach.ClassifyHazard(res.MOIDAU, x.sc.Asteroid.AbsMagnitude, x.sc.Asteroid.DiameterM)
	x.rep.Hazard = &h

	n := len(st.Warnings)
	x.rep.Warnings = append(x.rep.Warnings, st.Warnings...)
	if !res.Converged {
		x.rep.Warnings = append(x.rep.Warnings, "MOID search did not converge")
		n++
	}
	return n, nil
}

func (x *run) approaches(ctx context.Context) (int, error) {
	el, err := x.orbit()
	if err != nil {
		return 0, err
	}
	spec := x.sc.Approaches
	start := el.Epoch
	if spec.StartJD > 0 {
		start = ephemeris.NewJulianDate(spec.StartJD, el.Epoch.Scale)
	}
	span := spec.SpanDays
	if span <= 0 {
		span = defaultSpanDays
	}
	cov := approach.DiagonalCovariance(x.uel)
	res, err := approach.FindCloseApproaches(*el, start, start.AddDays(span), approach.Options{
		StepDays:            x.cfg.Approach.StepDays,
		MaxDistanceAU:       x.cfg.Approach.MaxDistanceAU,
		RefineToleranceDays: x.cfg.Approach.RefineToleranceDays,
		MaxRefineIterations: x.cfg.Approach.MaxRefineIterations,
		Uncertain:           &x.uel,
		Covariance:          &cov,
		Solver:              x.solver(),
	})
	if err != nil {
		return 0, err
	}
	x.rep.Approaches = &res
	return len(res.Warnings), ctx.Err()
}

func (x *run) propagation(ctx context.Context) (int, error) {
	el, err := x.orbit()
	if err != nil {
		return 0, err
	}
	spec := x.sc.Propagation
	if spec == nil {
		spec = &PropagationSpec{DurationDays: 365.25}
	}
	step := spec.StepDays
	if step <= 0 {
		step = 1
	}
	newIntegrator, err := x.registry.Factory(x.cfg.Integrator)
	if err != nil {
		return 0, err
	}
	st, err := ephemeris.StateAt(*el, el.Epoch, x.solver())
	if err != nil {
		return 0, err
	}

	epoch := el.Epoch
	model := perturbation.Heliocentric(epoch)
	earth := func(t float64) dynamo.Vec3 {
		return ephemeris.EarthHeliocentric(epoch.AddDays(t / ephemeris.SecondsPerDay)).Position.Scale(ephemeris.AUm)
	}
	closest := metrics.NewMinDistance("min_earth_distance", earth)
	energy := metrics.NewOrbitalEnergy(ephemeris.MuSunSI)

	steps := int(math.Ceil(spec.DurationDays / step))
	every := steps / maxRecordedSamples
	if every < 1 {
		every = 1
	}
	cfg := dynamo.Config{
		Dt:            step * ephemeris.SecondsPerDay,
		Duration:      spec.DurationDays * ephemeris.SecondsPerDay,
		ValidateState: true,
		RecordEvery:   every,
	}
	res, err := perturbation.PropagateWith(ctx, model, newIntegrator(), orbitalState(st), cfg, closest, energy)
	if err != nil {
		return 0, err
	}

	sum := &PropagationSummary{
		Integrator:         x.cfg.Integrator,
		DurationDays:       spec.DurationDays,
		Steps:              res.StepsTaken,
		EnergyDrift:        res.Metrics[perturbation.MetricEnergyDrift],
		MinEarthDistanceAU: closest.Value() / ephemeris.AUm,
		MinEarthJD:         epoch.AddDays(closest.Time() / ephemeris.SecondsPerDay).JD,
	}
	if eps := energy.Value(); eps < 0 {
		sum.MeanSemiMajorAxisAU = -ephemeris.MuSunSI / (2 * eps) / ephemeris.AUm
	}
	for i, state := range res.States {
		t := res.Times[i]
		sum.Times = append(sum.Times, t/ephemeris.SecondsPerDay)
		sum.DistancesAU = append(sum.DistancesAU, state.Position().DistanceTo(earth(t))/ephemeris.AUm)
	}
	if len(sum.Times) >= analysis.MinSamples {
		if period, err := analysis.DominantPeriod(sum.DistancesAU, sum.Times[1]-sum.Times[0]); err == nil {
			sum.DominantPeriodDays = period
		}
	}
	warnings := len(res.Errors)
	for _, e := range res.Errors {
		x.rep.Warnings = append(x.rep.Warnings, e.Error())
	}
	if b := res.Metrics[perturbation.MetricBoundedness]; b < 1 {
		x.rep.Warnings = append(x.rep.Warnings, fmt.Sprintf("propagation left the valid region for %.1f%% of steps", 100*(1-b)))
		warnings++
	}

	if final := res.Final(); final != nil {
		t := res.Times[len(res.Times)-1]
		kep, err := ephemeris.StateAt(*el, epoch.AddDays(t/ephemeris.SecondsPerDay), x.solver())
		if err != nil {
			return 0, err
		}
		sum.KeplerDeviationKm = final.Position().DistanceTo(kep.Position.Scale(ephemeris.AUm)) / 1e3

		if sigma := x.uel.SemiMajorAxis.Uncertainty; sigma > 0 {
			spread, err := x.dispersion(ctx, model, newIntegrator, sigma, cfg, final)
			if err != nil {
				if ctx.Err() != nil {
					return 0, err
				}
				x.rep.Warnings = append(x.rep.Warnings, fmt.Sprintf("dispersion skipped: %v", err))
				warnings++
			} else {
				sum.DispersionKm = spread
			}
		}
	}
	x.rep.Propagation = sum
	return warnings, nil
}

// dispersion propagates the orbit with a shifted by ±σ and returns the
// largest final separation from the nominal end state, in km.
func (x *run) dispersion(ctx context.Context, model *perturbation.Model, newIntegrator func() dynamo.Integrator,
	sigma float64, cfg dynamo.Config, nominal dynamo.State) (float64, error) {
	x0s := make([]dynamo.State, 0, 2)
	for _, sign := range []float64{-1, 1} {
		el := *x.el
		el.SemiMajorAxis += sign * sigma
		st, err := ephemeris.StateAt(el, el.Epoch, x.solver())
		if err != nil {
			return 0, err
		}
		x0s = append(x0s, orbitalState(st))
	}
	cfg.RecordEvery = int(math.Ceil(cfg.Duration/cfg.Dt)) + 1

	results, err := perturbation.PropagateEnsemble(ctx, model, newIntegrator, x0s, cfg, x.cfg.Workers)
	if err != nil {
		return 0, err
	}
	spread := 0.0
	for _, res := range results {
		if f := res.Final(); f != nil {
			spread = math.Max(spread, f.Position().DistanceTo(nominal.Position()))
		}
	}
	return spread / 1e3, nil
}

// orbitalState converts an AU, AU/day heliocentric state to SI.
func orbitalState(st ephemeris.State) dynamo.State {
	const velScale = ephemeris.AUm / ephemeris.SecondsPerDay
	return dynamo.NewOrbitalState(st.Position.Scale(ephemeris.AUm), st.Velocity.Scale(velScale))
}

func (x *run) crater(context.Context) (int, error) {
	c := x.in.consequences(nil).crater
	x.rep.Crater = &c
	return len(c.Validity.Warnings), nil
}

func (x *run) blast(context.Context) (int, error) {
	b := x.in.consequences(nil).blast
	x.rep.Blast = &b
	return len(b.Validity.Warnings), nil
}

func (x *run) seismic(context.Context) (int, error) {
	s := x.in.consequences(x.sc.Impact.SeismicDistancesKm).seismic
	x.rep.Seismic = &s
	return len(s.Validity.Warnings), nil
}

func (x *run) deflectionTarget() (deflection.Asteroid, error) {
	if x.target.Composition.Name != "" {
		return x.target, nil
	}
	t, err := deflectionTarget(x.sc.Asteroid)
	if err != nil {
		return deflection.Asteroid{}, err
	}
	x.target = t
	return t, nil
}

func (x *run) kinetic(context.Context) (int, error) {
	spec := x.sc.Deflection.Kinetic
	if spec == nil {
		return 0, fmt.Errorf("%w: no kinetic impactor given", ErrInvalidScenario)
	}
	ast, err := x.deflectionTarget()
	if err != nil {
		return 0, err
	}
	lead := spec.LeadTimeDays
	if lead <= 0 {
		lead = defaultLeadDays
	}
	res := deflection.Kinetic(deflection.KineticInput{
		Asteroid: ast,
		Impactor: deflection.Impactor{
			Mass:     uncertainty.Exact(spec.MassKg, "kg"),
			Velocity: uncertainty.Exact(spec.VelocityKmS, "km/s"),
			AngleDeg: uncertainty.Exact(spec.AngleDeg, "deg"),
		},
		LeadTimeDays: lead,
	})
	x.rep.Kinetic = &res
	return len(res.Warnings), nil
}

func (x *run) nuclear(context.Context) (int, error) {
	spec := x.sc.Deflection.Nuclear
	if spec == nil {
		return 0, fmt.Errorf("%w: no nuclear device given", ErrInvalidScenario)
	}
	ast, err := x.deflectionTarget()
	if err != nil {
		return 0, err
	}
	dev, err := deflection.GetDevice(spec.Device)
	if err != nil {
		return 0, err
	}
	res := deflection.Nuclear(deflection.NuclearInput{Asteroid: ast, Device: dev, Standoff: spec.StandoffM})
	x.rep.Nuclear = &res
	return len(res.Warnings), nil
}

func (x *run) solar(context.Context) (int, error) {
	spec := x.sc.Deflection.Solar
	if spec == nil {
		return 0, fmt.Errorf("%w: no solar method given", ErrInvalidScenario)
	}
	ast, err := x.deflectionTarget()
	if err != nil {
		return 0, err
	}
	method, err := deflection.ParseSolarMethod(spec.Method)
	if err != nil {
		return 0, err
	}
	in := deflection.SolarInput{
		Asteroid:    ast,
		Method:      method,
		DistanceAU:  spec.DistanceAU,
		DurationYrs: spec.DurationYears,
		ConeDeg:     spec.ConeDeg,
		ClockDeg:    spec.ClockDeg,
		AlbedoDelta: uncertainty.Exact(spec.AlbedoDelta, ""),
	}
	if in.DistanceAU <= 0 {
		in.DistanceAU = 1
		if x.sc.Asteroid.Orbit != nil {
			in.DistanceAU = x.sc.Asteroid.Orbit.A
		}
	}
	if spec.Sail != "" {
		sail, err := deflection.GetSail(spec.Sail)
		if err != nil {
			return 0, err
		}
		in.Sail = sail
	} else if sail, ok := deflection.DefaultSail(method); ok {
		in.Sail = sail
	}
	res, err := deflection.Solar(in)
	if err != nil {
		return 0, err
	}
	x.rep.Solar = &res
	return len(res.Warnings), nil
}

// scales fills the Torino and Palermo ratings from the impact probability
// of the closest approach, or the scenario's own figure.
func (x *run) scales() {
	p := x.sc.Impact.Probability
	years := x.sc.Impact.YearsToImpact
	if x.rep.Approaches != nil && x.el != nil {
		if ca, ok := x.rep.Approaches.Closest(); ok {
			if p == 0 {
				p = ca.ImpactProbability
			}
			if years <= 0 {
				if d, err := ca.Epoch.Sub(x.el.Epoch); err == nil {
					years = d / 365.25
				}
			}
		}
	}
	if years <= 0 {
		years = 1
	}
	mt := x.rep.EnergyMt.Value
	if mt == 0 {
		mt = impact.Megatons(x.in.energy()).Value
	}
	x.rep.Probability = p
	x.rep.TorinoScale = impact.TorinoScale(p, mt)
	if p > 0 {
		ps := impact.PalermoScale(p, mt, years)
		x.rep.PalermoScale = &ps
	}
}

// applyDeflection adds the chosen strategy's Δv to the orbit at epoch and
// recomputes the MOID.
func (x *run) applyDeflection(ctx context.Context) error {
	name := x.sc.Deflection.Apply
	if name == "" {
		return nil
	}
	var dv deflection.RTN
	switch name {
	case Kinetic:
		if x.rep.Kinetic == nil {
			return fmt.Errorf("%w: apply %s without a kinetic result", ErrInvalidScenario, name)
		}
		dv.Transverse = x.rep.Kinetic.DeltaV.Value
	case Nuclear:
		if x.rep.Nuclear == nil {
			return fmt.Errorf("%w: apply %s without a nuclear result", ErrInvalidScenario, name)
		}
		dv.Transverse = x.rep.Nuclear.DeltaV.Value
	case Solar:
		if x.rep.Solar == nil {
			return fmt.Errorf("%w: apply %s without a solar result", ErrInvalidScenario, name)
		}
		dv = x.rep.Solar.DeltaVRTN
	}
	el, err := x.orbit()
	if err != nil {
		return err
	}
	start := time.Now()
	moved, err := deflection.ApplyDeltaV(*el, el.Epoch, dv, x.solver())
	if err != nil {
		return err
	}
	res, err := approach.ComputeMOID(ctx, moved, ephemeris.EarthElements(), x.moidOptions())
	if err != nil {
		return err
	}
	out := &DeflectedOrbit{Strategy: name, DeltaV: dv, Elements: moved, MOID: res}
	if x.rep.MOID != nil {
		out.MOIDChangeKm = res.MOIDKm - x.rep.MOID.MOIDKm
	}
	x.rep.Deflected = out
	x.metrics.Observe("deflected_moid", time.Since(start), 0)
	x.log.Info(ctx, "deflection applied",
		logging.String("strategy", name),
		logging.Float("moid_change_km", out.MOIDChangeKm))
	return nil
}
