package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/neoshield/internal/logging"
	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/scenario"
)

// loadScenario reads a scenario file, or builds one from --preset.
func loadScenario(args []string, preset string) (*scenario.Scenario, error) {
	switch {
	case len(args) > 0:
		return scenario.Load(args[0])
	case preset != "":
		return scenario.FromPreset(preset)
	default:
		return nil, fmt.Errorf("need a scenario file or --preset")
	}
}

func openStore() (*report.Store, error) {
	store := report.New(cfg.DataDir)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func runCmd() *cobra.Command {
	var preset string
	var noSave bool
	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run every analysis a scenario enables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args, preset)
			if err != nil {
				return err
			}
			r, err := newRunner()
			if err != nil {
				return err
			}
			rep, err := r.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if !noSave {
				store, err := openStore()
				if err != nil {
					return err
				}
				if _, err := store.Save(rep); err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
				logger.Info(cmd.Context(), "report saved",
					logging.String("id", rep.ID), logging.String("dir", cfg.DataDir))
			}
			if jsonOut {
				return printJSON(rep)
			}
			return report.WriteText(os.Stdout, rep)
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "run a preset instead of a file")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the report")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <scenario.yaml>...",
		Short: "run several scenarios in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scs := make([]*scenario.Scenario, 0, len(args))
			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				scs = append(scs, sc)
			}
			r, err := newRunner()
			if err != nil {
				return err
			}
			reps, err := r.RunBatch(cmd.Context(), scs)
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			summaries := make([]report.Summary, 0, len(reps))
			for _, rep := range reps {
				if _, err := store.Save(rep); err != nil {
					return fmt.Errorf("failed to save %s: %w", rep.Scenario, err)
				}
				summaries = append(summaries, report.Summarize(rep))
			}
			if jsonOut {
				return printJSON(summaries)
			}
			return report.WriteList(os.Stdout, summaries)
		},
	}
	return cmd
}

func sweepCmd() *cobra.Command {
	var preset string
	var sweep scenario.ParameterSweep
	cmd := &cobra.Command{
		Use:   "sweep [scenario.yaml]",
		Short: "vary one impactor parameter and tabulate the consequences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args, preset)
			if err != nil {
				return err
			}
			r, err := newRunner()
			if err != nil {
				return err
			}
			results, err := r.RunSweep(cmd.Context(), sc, sweep)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(results)
			}

			fmt.Println(heading.Render(fmt.Sprintf("%s: %s sweep", sc.Name, sweep.Param)))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, sweep.Param+"\tenergy Mt\tcrater m\tfireball m\tMw\ttorino\twarnings\t")
			energies := make([]float64, len(results))
			for i, res := range results {
				energies[i] = res.EnergyMt
				fmt.Fprint(w, report.Printer.Sprintf("%.2f\t%.4g\t%.0f\t%.0f\t%.2f\t%d\t%d\t\n",
					res.ParamValue, res.EnergyMt, res.CraterDiameterM, res.FireballRadiusM,
					res.Magnitude, res.TorinoScale, res.Warnings))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(asciigraph.Plot(energies,
				asciigraph.Height(10),
				asciigraph.Width(60),
				asciigraph.Caption("energy (Mt) vs "+sweep.Param),
			))
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&preset, "preset", "", "sweep a preset instead of a file")
	fl.StringVar(&sweep.Param, "param", scenario.SweepDiameter, fmt.Sprintf("parameter %v", scenario.SweepParams))
	fl.Float64Var(&sweep.Min, "min", 10, "first value")
	fl.Float64Var(&sweep.Max, "max", 1000, "last value")
	fl.IntVar(&sweep.Steps, "steps", 10, "number of values")
	return cmd
}
