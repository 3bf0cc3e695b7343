package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/tui"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list archived reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			summaries, err := store.List()
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(summaries)
			}
			if len(summaries) == 0 {
				fmt.Println(dim.Render("no reports in " + cfg.DataDir))
				return nil
			}
			return report.WriteList(os.Stdout, summaries)
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "print an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			rep, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(rep)
			}
			return report.WriteText(os.Stdout, rep)
		},
	}
}

func plotCmd() *cobra.Command {
	var series string
	cmd := &cobra.Command{
		Use:   "plot <id>",
		Short: "plot an archived Earth distance series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			times, dists, err := store.LoadSeries(args[0], series)
			if err != nil {
				return err
			}
			if len(dists) == 0 {
				return fmt.Errorf("series %s of %s is empty", series, args[0])
			}
			fmt.Println(asciigraph.Plot(dists,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("Earth distance (AU), %s series", series)),
			))
			fmt.Println(dim.Render(fmt.Sprintf("  %d points, t = %.2f .. %.2f", len(times), times[0], times[len(times)-1])))
			return nil
		},
	}
	cmd.Flags().StringVar(&series, "series", report.SeriesPropagation,
		fmt.Sprintf("series to plot (%s, %s)", report.SeriesPropagation, report.SeriesApproaches))
	return cmd
}

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [id]",
		Short: "browse archived reports interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			var id string
			if len(args) > 0 {
				id = args[0]
			}
			return tui.Run(store, id)
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in asteroid presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			if jsonOut {
				out := make([]*config.Preset, 0, len(names))
				for _, name := range names {
					out = append(out, config.GetPreset(name))
				}
				return printJSON(out)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tDIAMETER\tVELOCITY\tCOMPOSITION\tORBIT")
			for _, key := range names {
				p := config.GetPreset(key)
				orbit := "-"
				if p.Orbit != nil {
					orbit = fmt.Sprintf("a=%.3f e=%.3f i=%.1f", p.Orbit.A, p.Orbit.E, p.Orbit.I)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f km/s\t%s\t%s\n",
					key, p.Name, report.Printer.Sprintf("%.0f m", p.DiameterM), p.VelocityKmS, p.Composition, orbit)
			}
			return w.Flush()
		},
	}
}

func configCmd() *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if write != "" {
				if err := config.Save(write, cfg); err != nil {
					return err
				}
				fmt.Println(dim.Render("wrote " + write))
				return nil
			}
			if jsonOut {
				return printJSON(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "save the effective config to this file")
	return cmd
}
