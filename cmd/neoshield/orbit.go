package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/neoshield/internal/approach"
	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/dynamo"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/kepler"
	"github.com/san-kum/neoshield/internal/scenario"
	"github.com/san-kum/neoshield/internal/units"
)

// elementFlags describes an orbit either by preset or by explicit elements.
type elementFlags struct {
	preset string
	orbit  config.OrbitPreset
}

func (f *elementFlags) add(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "", "take the orbit from a preset")
	fl.Float64Var(&f.orbit.A, "a", 1.0, "semi-major axis (AU, negative for hyperbolic)")
	fl.Float64Var(&f.orbit.E, "e", 0.1, "eccentricity")
	fl.Float64Var(&f.orbit.I, "i", 0, "inclination (deg)")
	fl.Float64Var(&f.orbit.RAAN, "raan", 0, "longitude of ascending node (deg)")
	fl.Float64Var(&f.orbit.ArgPeri, "argp", 0, "argument of periapsis (deg)")
	fl.Float64Var(&f.orbit.M, "m", 0, "mean anomaly at epoch (deg)")
	fl.Float64Var(&f.orbit.EpochJD, "epoch", ephemeris.J2000JD, "epoch (JD, TT)")
	fl.Float64Var(&f.orbit.SigmaA, "sigma-a", 0, "1σ of a (AU)")
	fl.Float64Var(&f.orbit.SigmaE, "sigma-e", 0, "1σ of e")
	fl.Float64Var(&f.orbit.SigmaI, "sigma-i", 0, "1σ of i (deg)")
}

func (f *elementFlags) elements() (ephemeris.UncertainElements, ephemeris.Elements, error) {
	o := &f.orbit
	if f.preset != "" {
		p := config.GetPreset(f.preset)
		if p == nil {
			return ephemeris.UncertainElements{}, ephemeris.Elements{}, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
		if p.Orbit == nil {
			return ephemeris.UncertainElements{}, ephemeris.Elements{}, fmt.Errorf("preset %s has no orbit", f.preset)
		}
		o = p.Orbit
	}
	u := scenario.OrbitElements(o)
	el := u.Nominal()
	if err := el.Validate(); err != nil {
		return u, el, err
	}
	return u, el, nil
}

func solver() *kepler.Solver {
	return &kepler.Solver{Tolerance: cfg.Kepler.Tolerance, MaxIterations: cfg.Kepler.MaxIterations}
}

func keplerCmd() *cobra.Command {
	var meanDeg, e float64
	cmd := &cobra.Command{
		Use:   "kepler",
		Short: "solve Kepler's equation",
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := solver().Solve(units.Deg2Rad(meanDeg), e)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(sol)
			}
			fmt.Println(heading.Render(sol.Kind.String() + " orbit"))
			fmt.Printf("  mean anomaly       %12.8f rad\n", sol.MeanAnomaly)
			fmt.Printf("  eccentric anomaly  %12.8f rad\n", sol.EccentricAnomaly)
			fmt.Printf("  true anomaly       %12.8f rad (%.4f°)\n", sol.TrueAnomaly, units.Rad2Deg(sol.TrueAnomaly))
			fmt.Printf("  iterations         %12d\n", sol.Iterations)
			fmt.Printf("  converged          %12t\n", sol.Converged)
			printWarnings(sol.Warnings)
			return nil
		},
	}
	cmd.Flags().Float64Var(&meanDeg, "mean", 30, "mean anomaly (deg)")
	cmd.Flags().Float64Var(&e, "e", 0.5, "eccentricity")
	return cmd
}

func stateCmd() *cobra.Command {
	var ef elementFlags
	var jd float64
	cmd := &cobra.Command{
		Use:   "state",
		Short: "heliocentric position and velocity at a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, el, err := ef.elements()
			if err != nil {
				return err
			}
			at := el.Epoch
			if jd > 0 {
				at = ephemeris.NewJulianDate(jd, ephemeris.TT)
			}
			st, err := ephemeris.StateAt(el, at, solver())
			if err != nil {
				return err
			}
			if !st.Anomaly.Converged {
				collector.ObserveKeplerNonConverged()
			}
			if jsonOut {
				return printJSON(st)
			}
			fmt.Println(heading.Render("state at " + at.String()))
			fmt.Printf("  r  [%14.9f %14.9f %14.9f] AU   |r| = %.9f AU\n", st.Position.X, st.Position.Y, st.Position.Z, st.Distance())
			fmt.Printf("  v  [%14.9f %14.9f %14.9f] AU/d |v| = %.4f km/s\n", st.Velocity.X, st.Velocity.Y, st.Velocity.Z,
				st.Speed()*units.AU/1e3/units.Day)
			printWarnings(st.Warnings)
			return nil
		},
	}
	ef.add(cmd)
	cmd.Flags().Float64Var(&jd, "jd", 0, "date (JD, TT); defaults to the epoch")
	return cmd
}

func transformCmd() *cobra.Command {
	var x, y, z, jd, lat, lon, alt float64
	var from, to, scale string
	var helio bool
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "convert a position between reference frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := ephemeris.ParseFrame(from)
			if err != nil {
				return err
			}
			dst, err := ephemeris.ParseFrame(to)
			if err != nil {
				return err
			}
			opts := ephemeris.TransformOptions{}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				opts.Observer = &ephemeris.Observer{Latitude: units.Deg2Rad(lat), Longitude: units.Deg2Rad(lon), Altitude: alt}
			}
			epoch := ephemeris.NewJulianDate(jd, ephemeris.TimeScale(scale))
			in := ephemeris.NewVector(dynamo.Vec3{X: x, Y: y, Z: z}, src, epoch)
			if helio {
				if in, err = ephemeris.GeocentricKm(in); err != nil {
					return err
				}
			}
			out, err := ephemeris.Transform(in, dst, opts)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(out)
			}
			fmt.Printf("%s  [%.9f %.9f %.9f]\n", out.Frame, out.X, out.Y, out.Z)
			if out.Frame == ephemeris.Topocentric {
				az, el := ephemeris.AzEl(out)
				fmt.Printf("azimuth %.4f°  elevation %.4f°\n", units.Rad2Deg(az), units.Rad2Deg(el))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&x, "x", 1, "x component")
	fl.Float64Var(&y, "y", 0, "y component")
	fl.Float64Var(&z, "z", 0, "z component")
	fl.StringVar(&from, "from", "J2000_ECLIPTIC", "source frame")
	fl.StringVar(&to, "to", "J2000_EQUATORIAL", "target frame")
	fl.Float64Var(&jd, "jd", ephemeris.J2000JD, "epoch (JD)")
	fl.StringVar(&scale, "scale", string(ephemeris.UTC), "time scale of --jd")
	fl.Float64Var(&lat, "lat", 0, "observer latitude (deg)")
	fl.Float64Var(&lon, "lon", 0, "observer longitude (deg, east)")
	fl.Float64Var(&alt, "alt", 0, "observer altitude (km)")
	fl.BoolVar(&helio, "helio", false, "input is heliocentric in AU; convert to geocentric km first")
	return cmd
}

func approachesCmd() *cobra.Command {
	var ef elementFlags
	var start, days float64
	var plot bool
	cmd := &cobra.Command{
		Use:   "approaches",
		Short: "find close approaches to Earth",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, el, err := ef.elements()
			if err != nil {
				return err
			}
			t0 := el.Epoch
			if start > 0 {
				t0 = ephemeris.NewJulianDate(start, ephemeris.TT)
			}
			cov := approach.DiagonalCovariance(u)
			res, err := approach.FindCloseApproaches(el, t0, t0.AddDays(days), approach.Options{
				StepDays:            cfg.Approach.StepDays,
				MaxDistanceAU:       cfg.Approach.MaxDistanceAU,
				RefineToleranceDays: cfg.Approach.RefineToleranceDays,
				MaxRefineIterations: cfg.Approach.MaxRefineIterations,
				Uncertain:           &u,
				Covariance:          &cov,
				Solver:              solver(),
			})
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(res)
			}

			if len(res.Approaches) == 0 {
				fmt.Printf("no approaches within %.3f AU\n", cfg.Approach.MaxDistanceAU)
			} else {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tJD\tDIST (AU)\tDIST (LD)\tV_REL (km/s)\tσ (AU)\tP(IMPACT)")
				for _, ca := range res.Approaches {
					y, mo, d, _, _, _ := ca.Epoch.Calendar()
					fmt.Fprintf(w, "%04d-%02d-%02d\t%.4f\t%.6f\t%.2f\t%.3f\t%.2e\t%.2e\n",
						y, mo, d, ca.Epoch.JD, ca.DistanceAU, ca.DistanceLD, ca.RelativeSpeedKmS, ca.SigmaDistanceAU, ca.ImpactProbability)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			printWarnings(res.Warnings)

			if plot && len(res.Samples) > 1 {
				data := make([]float64, len(res.Samples))
				for i, s := range res.Samples {
					data[i] = s.DistanceAU
				}
				fmt.Println()
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(12),
					asciigraph.Width(80),
					asciigraph.Caption("Earth distance (AU)"),
				))
			}
			return nil
		},
	}
	ef.add(cmd)
	cmd.Flags().Float64Var(&start, "start", 0, "scan start (JD, TT); defaults to the epoch")
	cmd.Flags().Float64Var(&days, "days", 3652.5, "scan length in days")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the Earth distance")
	return cmd
}

func moidCmd() *cobra.Command {
	var ef elementFlags
	var h, diameter float64
	cmd := &cobra.Command{
		Use:   "moid",
		Short: "minimum orbit intersection distance with Earth",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, el, err := ef.elements()
			if err != nil {
				return err
			}
			opts := approach.DefaultMOIDOptions()
			opts.ResolutionDeg = cfg.MOID.ResolutionDeg
			opts.MaxIterations = cfg.MOID.MaxIterations
			if cfg.Workers > 0 {
				opts.Workers = cfg.Workers
			}
			res, err := approach.ComputeMOID(context.Background(), el, ephemeris.EarthElements(), opts)
			if err != nil {
				return err
			}
			if ef.preset != "" {
				p := config.GetPreset(ef.preset)
				if !cmd.Flags().Changed("h") {
					h = p.AbsMagnitude
				}
				if !cmd.Flags().Changed("diameter") {
					diameter = p.DiameterM
				}
			}
			hazard := approach.ClassifyHazard(res.MOIDAU, h, diameter)
			if jsonOut {
				return printJSON(struct {
					approach.MOIDResult
					Hazard approach.Hazard `json:"hazard"`
				}{res, hazard})
			}
			fmt.Println(heading.Render("MOID"))
			fmt.Printf("  %.8f AU  (%.0f km)\n", res.MOIDAU, res.MOIDKm)
			fmt.Printf("  ν body %.4f°  ν earth %.4f°  %d iterations\n",
				units.Rad2Deg(res.TrueAnomalyBody), units.Rad2Deg(res.TrueAnomalyEarth), res.Iterations)
			if !res.Converged {
				printWarnings([]string{"search did not converge"})
			}
			fmt.Println(dim.Render("  " + hazard.Reason))
			return nil
		},
	}
	ef.add(cmd)
	cmd.Flags().Float64Var(&h, "h", 0, "absolute magnitude (0 = judge by diameter)")
	cmd.Flags().Float64Var(&diameter, "diameter", 0, "diameter (m)")
	return cmd
}
