package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/neoshield/internal/config"
	"github.com/san-kum/neoshield/internal/logging"
	"github.com/san-kum/neoshield/internal/observability"
	"github.com/san-kum/neoshield/internal/scenario"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string
	metricsOut string
	integrator string
	workers    int
	seed       int64
	samples    int
	jsonOut    bool

	cfg       *config.Config
	logger    logging.Logger = logging.Noop()
	collector *observability.AnalysisCollector
)

var (
	heading = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "neoshield",
		Short:             "near-earth object threat assessment",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsOut == "" {
				return nil
			}
			return collector.WriteFile(metricsOut)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "report directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file after the command")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "propagation integrator")
	pf.IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "monte carlo seed")
	pf.IntVar(&samples, "samples", 0, "monte carlo samples for energy (0 disables)")
	pf.BoolVar(&jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		keplerCmd(), stateCmd(), transformCmd(), approachesCmd(), moidCmd(),
		craterCmd(), blastCmd(), seismicCmd(), deflectCmd(),
		runCmd(), batchCmd(), sweepCmd(),
		listCmd(), showCmd(), plotCmd(), browseCmd(), presetsCmd(), configCmd(),
	)
	return rootCmd
}

// setup loads the config file, lets the environment and then explicit
// flags override it, and builds the logger and metrics collector.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	collector, err = observability.NewAnalysisCollector(prometheus.NewRegistry())
	return err
}

// applyFlags copies the persistent flags the user set onto loaded.
func applyFlags(cmd *cobra.Command, loaded *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		loaded.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	if flags.Changed("integrator") {
		loaded.Integrator = integrator
	}
	if flags.Changed("workers") {
		loaded.Workers = workers
	}
	if flags.Changed("seed") {
		loaded.Seed = seed
	}
	if flags.Changed("samples") {
		loaded.MonteCarloSamples = samples
	}
}

func newRunner() (*scenario.Runner, error) {
	return scenario.NewRunner(*cfg, scenario.WithLogger(logger), scenario.WithMetrics(collector))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWarnings(ws []string) {
	for _, w := range ws {
		fmt.Println(warn.Render("  ! " + w))
	}
}
