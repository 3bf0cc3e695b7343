package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/scenario"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// impactFlags describe the impactor, optionally starting from a preset.
type impactFlags struct {
	preset string
	body   config.Preset
}

func (f *impactFlags) add(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "", "start from a preset")
	fl.Float64Var(&f.body.DiameterM, "diameter", 100, "diameter (m)")
	fl.Float64Var(&f.body.DiameterSig, "diameter-sigma", 0, "1σ of diameter (m)")
	fl.Float64Var(&f.body.MassKg, "mass", 0, "mass (kg); derived from diameter when 0")
	fl.Float64Var(&f.body.VelocityKmS, "velocity", 17, "impact velocity (km/s)")
	fl.Float64Var(&f.body.VelocitySig, "velocity-sigma", 0, "1σ of velocity (km/s)")
	fl.Float64Var(&f.body.ImpactAngleDeg, "angle", 45, "impact angle from horizontal (deg)")
	fl.Float64Var(&f.body.ImpactAngleSig, "angle-sigma", 0, "1σ of angle (deg)")
	fl.StringVar(&f.body.Composition, "composition", "rocky", "impactor composition")
	fl.StringVar(&f.body.Target, "target", "sedimentaryRock", "target material")
	fl.StringVar(&f.body.Atmosphere, "atmosphere", "seaLevel", "atmosphere profile")
}

// scenario builds a one-off scenario; flags set on the command line
// override the preset.
func (f *impactFlags) scenario(cmd *cobra.Command, analyses ...string) (*scenario.Scenario, error) {
	if f.preset == "" {
		body := f.body
		body.Name = "custom"
		return &scenario.Scenario{Name: "custom", Asteroid: body, Analyses: analyses}, nil
	}
	sc, err := scenario.FromPreset(f.preset)
	if err != nil {
		return nil, err
	}
	a := &sc.Asteroid
	fl := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *float64
		src  float64
	}{
		{"diameter", &a.DiameterM, f.body.DiameterM},
		{"diameter-sigma", &a.DiameterSig, f.body.DiameterSig},
		{"mass", &a.MassKg, f.body.MassKg},
		{"velocity", &a.VelocityKmS, f.body.VelocityKmS},
		{"velocity-sigma", &a.VelocitySig, f.body.VelocitySig},
		{"angle", &a.ImpactAngleDeg, f.body.ImpactAngleDeg},
		{"angle-sigma", &a.ImpactAngleSig, f.body.ImpactAngleSig},
	}
	for _, o := range overrides {
		if fl.Changed(o.flag) {
			*o.dst = o.src
		}
	}
	if fl.Changed("diameter") && !fl.Changed("mass") {
		a.MassKg = 0
	}
	if fl.Changed("composition") {
		a.Composition = f.body.Composition
	}
	if fl.Changed("target") {
		a.Target = f.body.Target
	}
	if fl.Changed("atmosphere") {
		a.Atmosphere = f.body.Atmosphere
	}
	sc.Analyses = analyses
	return sc, nil
}

func runImpact(cmd *cobra.Command, f *impactFlags, mutate func(*scenario.Scenario), analyses ...string) (*scenario.Report, error) {
	sc, err := f.scenario(cmd, append([]string{scenario.Energy}, analyses...)...)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(sc)
	}
	r, err := newRunner()
	if err != nil {
		return nil, err
	}
	return r.Run(cmd.Context(), sc)
}

func printEnergy(rep *scenario.Report) {
	fmt.Println(heading.Render(rep.Scenario))
	fmt.Printf("  mass    %s\n", report.Quantity(rep.Mass, 0, "kg"))
	fmt.Printf("  energy  %s  (%s)\n", report.Printer.Sprintf("%.3e J", rep.Energy.Value), report.Quantity(rep.EnergyMt, 3, "Mt"))
}

func craterCmd() *cobra.Command {
	var f impactFlags
	cmd := &cobra.Command{
		Use:   "crater",
		Short: "crater size from impact energy",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := runImpact(cmd, &f, nil, scenario.Crater)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(rep.Crater)
			}
			c := rep.Crater
			printEnergy(rep)
			fmt.Printf("  transient diameter  %s\n", report.Quantity(c.TransientDiameter, 0, "m"))
			fmt.Printf("  final diameter      %s\n", report.Quantity(c.FinalDiameter, 0, "m"))
			fmt.Printf("  depth               %s\n", report.Quantity(c.Depth, 0, "m"))
			fmt.Printf("  rim height          %s\n", report.Quantity(c.RimHeight, 0, "m"))
			fmt.Printf("  ejecta range        %s\n", report.Quantity(c.EjectaRange, 0, "m"))
			fmt.Printf("  formation time      %s\n", report.Quantity(c.FormationTime, 1, "s"))
			fmt.Println(dim.Render(fmt.Sprintf("  %s, %s regime", c.Morphology, c.Regime)))
			printWarnings(c.Validity.Warnings)
			return nil
		},
	}
	f.add(cmd)
	return cmd
}

func blastCmd() *cobra.Command {
	var f impactFlags
	cmd := &cobra.Command{
		Use:   "blast",
		Short: "airblast and thermal damage radii",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := runImpact(cmd, &f, nil, scenario.Blast)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(rep.Blast)
			}
			b := rep.Blast
			printEnergy(rep)
			fmt.Printf("  yield           %s\n", report.Quantity(b.YieldKt, 1, "kt"))
			fmt.Printf("  fireball        %s\n", report.Quantity(b.FireballRadius, 0, "m"))
			if b.Airburst {
				fmt.Printf("  airburst at     %s\n", report.Quantity(b.BreakupAltitude, 0, "m"))
			}
			fmt.Println(heading.Render("overpressure"))
			for _, r := range b.Overpressure {
				fmt.Printf("  %-8s %s\n", r.Label, report.Quantity(uncertainty.Scale(r.Radius, 1e-3), 2, "km"))
			}
			fmt.Println(heading.Render("thermal"))
			for _, r := range b.Thermal {
				fmt.Printf("  %-24s %s\n", r.Label, report.Quantity(uncertainty.Scale(r.Radius, 1e-3), 2, "km"))
			}
			printWarnings(b.Validity.Warnings)
			return nil
		},
	}
	f.add(cmd)
	return cmd
}

func seismicCmd() *cobra.Command {
	var f impactFlags
	var distances []float64
	cmd := &cobra.Command{
		Use:   "seismic",
		Short: "seismic magnitude and intensity",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := runImpact(cmd, &f, func(sc *scenario.Scenario) {
				sc.Impact.SeismicDistancesKm = distances
			}, scenario.Seismic)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(rep.Seismic)
			}
			s := rep.Seismic
			printEnergy(rep)
			fmt.Printf("  moment magnitude   %s\n", report.Quantity(s.MomentMagnitude, 2, ""))
			fmt.Printf("  richter magnitude  %s\n", report.Quantity(s.RichterMagnitude, 2, ""))
			fmt.Printf("  felt radius        %s\n", report.Quantity(s.FeltRadiusKm, 0, "km"))
			fmt.Printf("  damage radius      %s\n", report.Quantity(s.DamageRadiusKm, 0, "km"))
			for _, site := range s.Sites {
				fmt.Printf("  %8.0f km  PGA %.4f g  MMI %.1f\n", site.DistanceKm, site.PGA, site.MMI)
			}
			printWarnings(s.Validity.Warnings)
			return nil
		},
	}
	f.add(cmd)
	cmd.Flags().Float64SliceVar(&distances, "distances", []float64{10, 50, 100, 500}, "site distances (km)")
	return cmd
}
