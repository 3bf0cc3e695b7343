package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/logging"
	"github.com/san-kum/neoshield/internal/optim"
	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// targetFlags describe the asteroid being deflected.
type targetFlags struct {
	preset      string
	diameter    float64
	mass        float64
	composition string
}

func (f *targetFlags) add(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "", "take the asteroid from a preset")
	fl.Float64Var(&f.diameter, "diameter", 300, "asteroid diameter (m)")
	fl.Float64Var(&f.mass, "asteroid-mass", 0, "asteroid mass (kg); derived when 0")
	fl.StringVar(&f.composition, "composition", "rocky", "asteroid composition")
}

func (f *targetFlags) asteroid() (deflection.Asteroid, error) {
	name, diameter, mass, comp := "custom", f.diameter, f.mass, f.composition
	if f.preset != "" {
		p := config.GetPreset(f.preset)
		if p == nil {
			return deflection.Asteroid{}, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
		name, diameter, mass, comp = p.Name, p.DiameterM, p.MassKg, p.Composition
	}
	c, err := deflection.GetComposition(comp)
	if err != nil {
		return deflection.Asteroid{}, err
	}
	ast := deflection.Asteroid{Name: name, Diameter: uncertainty.Exact(diameter, "m"), Composition: c}
	if mass > 0 {
		ast.Mass = uncertainty.Exact(mass, "kg")
	}
	return ast, nil
}

func deflectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deflect",
		Short: "deflection strategy models",
	}
	cmd.AddCommand(kineticCmd(), nuclearCmd(), solarCmd(), optimizeCmd())
	return cmd
}

func printDeltaV(ast deflection.Asteroid, dv uncertainty.Value) {
	fmt.Println(heading.Render(ast.Name))
	fmt.Printf("  mass  %s\n", report.Quantity(ast.MassValue(), 0, "kg"))
	fmt.Printf("  Δv    %s\n", report.Quantity(uncertainty.Scale(dv, 1e3), 3, "mm/s"))
}

func kineticCmd() *cobra.Command {
	var tf targetFlags
	var mass, velocity, angle, lead float64
	cmd := &cobra.Command{
		Use:   "kinetic",
		Short: "kinetic impactor momentum transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := tf.asteroid()
			if err != nil {
				return err
			}
			res := deflection.Kinetic(deflection.KineticInput{
				Asteroid: ast,
				Impactor: deflection.Impactor{
					Mass:     uncertainty.Exact(mass, "kg"),
					Velocity: uncertainty.Exact(velocity, "km/s"),
					AngleDeg: uncertainty.Exact(angle, "deg"),
				},
				LeadTimeDays: lead,
			})
			if jsonOut {
				return printJSON(res)
			}
			printDeltaV(ast, res.DeltaV)
			fmt.Printf("  momentum      %s (direct %s, ejecta %s)\n",
				report.Printer.Sprintf("%.3e kg·m/s", res.TotalMomentum.Value),
				report.Printer.Sprintf("%.3e", res.DirectMomentum.Value),
				report.Printer.Sprintf("%.3e", res.EjectaMomentum.Value))
			fmt.Printf("  crater        %s\n", report.Quantity(res.CraterDiameter, 1, "m"))
			fmt.Printf("  ejecta        %s at %s\n", report.Quantity(res.EjectaMass, 0, "kg"), report.Quantity(res.EjectaVelocity, 2, "m/s"))
			fmt.Printf("  along-track   %s\n", report.Printer.Sprintf("%.0f km after %.0f days", res.AlongTrackShiftKm, lead))
			printWarnings(res.Warnings)
			return nil
		},
	}
	tf.add(cmd)
	fl := cmd.Flags()
	fl.Float64Var(&mass, "mass", 580, "spacecraft mass (kg)")
	fl.Float64Var(&velocity, "velocity", 6.14, "impact speed (km/s)")
	fl.Float64Var(&angle, "angle", 0, "impact angle from the surface normal (deg)")
	fl.Float64Var(&lead, "lead-days", 3652.5, "lead time before the encounter (days)")
	return cmd
}

func nuclearCmd() *cobra.Command {
	var tf targetFlags
	var device string
	var standoff float64
	cmd := &cobra.Command{
		Use:   "nuclear",
		Short: "nuclear standoff detonation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := tf.asteroid()
			if err != nil {
				return err
			}
			dev, err := deflection.GetDevice(device)
			if err != nil {
				return err
			}
			res := deflection.Nuclear(deflection.NuclearInput{Asteroid: ast, Device: dev, Standoff: standoff})
			if jsonOut {
				return printJSON(res)
			}
			printDeltaV(ast, res.DeltaV)
			fmt.Printf("  standoff         %s\n", report.Printer.Sprintf("%.0f m (optimal %.0f m)", res.Standoff, res.OptimalStandoff))
			fmt.Printf("  intercepted      %.4f\n", res.GeometricFraction)
			fmt.Printf("  deposited        %s\n", report.Printer.Sprintf("%.3e J (binding %.3e J)", res.DepositedEnergy.Value, res.BindingEnergy))
			fmt.Printf("  momentum         %s\n", report.Printer.Sprintf("%.3e kg·m/s", res.TotalMomentum.Value))
			printWarnings(res.Warnings)
			return nil
		},
	}
	tf.add(cmd)
	cmd.Flags().StringVar(&device, "device", "mediumYield", "nuclear device")
	cmd.Flags().Float64Var(&standoff, "standoff", 0, "standoff height (m); 0 uses the optimum")
	return cmd
}

func solarCmd() *cobra.Command {
	var tf targetFlags
	var method, sail string
	var in deflection.SolarInput
	var albedo float64
	cmd := &cobra.Command{
		Use:   "solar",
		Short: "solar sail, mirror and albedo methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := tf.asteroid()
			if err != nil {
				return err
			}
			m, err := deflection.ParseSolarMethod(method)
			if err != nil {
				return err
			}
			in.Asteroid, in.Method = ast, m
			in.AlbedoDelta = uncertainty.Exact(albedo, "")
			if sail != "" {
				if in.Sail, err = deflection.GetSail(sail); err != nil {
					return err
				}
			} else if s, ok := deflection.DefaultSail(m); ok {
				in.Sail = s
			}
			res, err := deflection.Solar(in)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(res)
			}
			printDeltaV(ast, res.DeltaV)
			fmt.Printf("  force        %s\n", report.Quantity(res.Force, 4, "N"))
			fmt.Printf("  RTN          %.3e  %.3e  %.3e N\n", res.Radial, res.Tangential, res.Normal)
			fmt.Printf("  duration     %.1f yr\n", res.EffectiveYears)
			fmt.Printf("  Δa           %s\n", report.Printer.Sprintf("%.1f m", res.DeltaA))
			fmt.Printf("  drift        %s\n", report.Printer.Sprintf("%.0f km", res.AlongTrackDriftKm))
			printWarnings(res.Warnings)
			return nil
		},
	}
	tf.add(cmd)
	fl := cmd.Flags()
	fl.StringVar(&method, "method", string(deflection.FlatSail), "method")
	fl.StringVar(&sail, "sail", "", "sail or mirror hardware")
	fl.Float64Var(&in.DistanceAU, "distance", 1, "heliocentric distance (AU)")
	fl.Float64Var(&in.DurationYrs, "years", 5, "mission duration (years)")
	fl.Float64Var(&in.ConeDeg, "cone", 0, "cone angle from the Sun line (deg)")
	fl.Float64Var(&in.ClockDeg, "clock", 0, "clock angle (deg)")
	fl.Float64Var(&albedo, "albedo-delta", 0.1, "albedo change for surface methods")
	return cmd
}

// optimizeCmd searches impactor mass and speed for the lightest spacecraft
// that reaches a required Δv.
func optimizeCmd() *cobra.Command {
	var tf targetFlags
	var required, massMin, massMax, velMin, velMax float64
	var steps int
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "lightest kinetic impactor for a required Δv",
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := tf.asteroid()
			if err != nil {
				return err
			}
			gs, err := optim.NewGridSearch(
				[]string{"mass", "velocity"},
				[][]float64{optim.Linspace(massMin, massMax, steps), optim.Linspace(velMin, velMax, steps)},
			)
			if err != nil {
				return err
			}
			logger.Info(cmd.Context(), "grid search started", logging.Int("points", gs.Size()))

			objective := func(p map[string]float64) (float64, error) {
				res := deflection.Kinetic(deflection.KineticInput{
					Asteroid: ast,
					Impactor: deflection.Impactor{
						Mass:     uncertainty.Exact(p["mass"], "kg"),
						Velocity: uncertainty.Exact(p["velocity"], "km/s"),
						AngleDeg: uncertainty.Exact(0, "deg"),
					},
				})
				if res.DeltaV.Value < required/1e3 {
					return 0, fmt.Errorf("Δv %.3g below target", res.DeltaV.Value)
				}
				// Ties in mass go to the slower, cheaper intercept.
				return p["mass"] + p["velocity"]*1e-6, nil
			}
			best, _, err := gs.Search(cmd.Context(), objective)
			if err != nil {
				return fmt.Errorf("no impactor in the grid reaches %.3f mm/s: %w", required, err)
			}
			if jsonOut {
				return printJSON(best)
			}
			fmt.Println(heading.Render(ast.Name))
			fmt.Printf("  required Δv  %.3f mm/s\n", required)
			fmt.Printf("  impactor     %s at %.2f km/s\n", report.Printer.Sprintf("%.0f kg", best["mass"]), best["velocity"])
			return nil
		},
	}
	tf.add(cmd)
	fl := cmd.Flags()
	fl.Float64Var(&required, "dv", 1, "required Δv (mm/s)")
	fl.Float64Var(&massMin, "mass-min", 100, "lightest spacecraft (kg)")
	fl.Float64Var(&massMax, "mass-max", 20000, "heaviest spacecraft (kg)")
	fl.Float64Var(&velMin, "vel-min", 3, "slowest impact (km/s)")
	fl.Float64Var(&velMax, "vel-max", 20, "fastest impact (km/s)")
	fl.IntVar(&steps, "steps", 40, "grid points per axis")
	return cmd
}
