package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/san-kum/neoshield/internal/scenario"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

// Printer formats numbers with thousands separators.
var Printer = message.NewPrinter(language.English)

// Quantity renders v ± σ with grouped digits and the given precision.
func Quantity(v uncertainty.Value, prec int, unit string) string {
	num := fmt.Sprintf("%%.%df", prec)
	if v.Uncertainty == 0 {
		return strings.TrimSpace(Printer.Sprintf(num+" %s", v.Value, unit))
	}
	return strings.TrimSpace(Printer.Sprintf(num+" ± "+num+" %s", v.Value, v.Uncertainty, unit))
}

// WriteText writes a plain-text summary of rep, one section per analysis
// that ran.
func WriteText(w io.Writer, rep *scenario.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(tw, "  %s\t%s\n", k, v) }
	section := func(name string) { fmt.Fprintf(tw, "%s\n", name) }

	fmt.Fprintf(tw, "%s (%s)\n", rep.Scenario, rep.ID)
	if rep.Description != "" {
		fmt.Fprintf(tw, "%s\n", rep.Description)
	}

	section("Energy")
	row("mass", Printer.Sprintf("%.3g kg", rep.Mass.Value))
	row("kinetic energy", Printer.Sprintf("%.3g J", rep.Energy.Value))
	row("yield", Quantity(rep.EnergyMt, 2, "Mt"))
	if mc := rep.EnergyMC; mc != nil {
		row("monte carlo", Printer.Sprintf("%.3g J (5%%: %.3g, 95%%: %.3g, n=%d)", mc.Value.Value, mc.P05, mc.P95, mc.Samples))
	}
	row("torino", Printer.Sprintf("%d", rep.TorinoScale))
	if rep.PalermoScale != nil {
		row("palermo", Printer.Sprintf("%.2f", *rep.PalermoScale))
	}

	if rep.MOID != nil {
		section("Orbit")
		row("MOID", Printer.Sprintf("%.6f AU (%.0f km)", rep.MOID.MOIDAU, rep.MOID.MOIDKm))
		if rep.Hazard != nil {
			row("hazard", rep.Hazard.Reason)
		}
	}
	if a := rep.Approaches; a != nil {
		if ca, ok := a.Closest(); ok {
			row("closest approach", Printer.Sprintf("JD %.3f at %.0f km (%.2f LD), %.2f km/s",
				ca.Epoch.JD, ca.DistanceKm, ca.DistanceLD, ca.RelativeSpeedKmS))
			row("impact probability", Printer.Sprintf("%.3g", ca.ImpactProbability))
		} else {
			row("close approaches", "none in window")
		}
	}
	if p := rep.Propagation; p != nil {
		section("Propagation")
		row("integrator", p.Integrator)
		row("steps", Printer.Sprintf("%d", p.Steps))
		row("min earth distance", Printer.Sprintf("%.6f AU at JD %.3f", p.MinEarthDistanceAU, p.MinEarthJD))
		row("energy drift", Printer.Sprintf("%.3g", p.EnergyDrift))
		if p.MeanSemiMajorAxisAU > 0 {
			row("mean a", Printer.Sprintf("%.6f AU", p.MeanSemiMajorAxisAU))
		}
		row("deviation from kepler", Printer.Sprintf("%.0f km", p.KeplerDeviationKm))
		if p.DispersionKm > 0 {
			row("±1σ a dispersion", Printer.Sprintf("%.0f km", p.DispersionKm))
		}
		if p.DominantPeriodDays > 0 {
			row("distance cycle", Printer.Sprintf("%.1f days", p.DominantPeriodDays))
		}
	}

	if c := rep.Crater; c != nil {
		section("Crater")
		row("transient", Quantity(c.TransientDiameter, 0, "m"))
		row("final", Quantity(c.FinalDiameter, 0, "m"))
		row("morphology", c.Morphology)
	}
	if b := rep.Blast; b != nil {
		section("Blast")
		row("fireball", Quantity(b.FireballRadius, 0, "m"))
		for _, r := range b.Overpressure {
			row(r.Label, Quantity(uncertainty.Scale(r.Radius, 1e-3), 2, "km"))
		}
		if b.Airburst {
			row("airburst", Quantity(b.BreakupAltitude, 0, "m"))
		}
	}
	if s := rep.Seismic; s != nil {
		section("Seismic")
		row("moment magnitude", Quantity(s.MomentMagnitude, 1, ""))
		row("felt radius", Quantity(s.FeltRadiusKm, 0, "km"))
	}

	if k := rep.Kinetic; k != nil {
		section("Kinetic impactor")
		row("Δv", Quantity(uncertainty.Scale(k.DeltaV, 1e3), 3, "mm/s"))
		row("along-track shift", Printer.Sprintf("%.0f km", k.AlongTrackShiftKm))
	}
	if n := rep.Nuclear; n != nil {
		section("Nuclear standoff")
		row("standoff", Printer.Sprintf("%.0f m (optimal %.0f m)", n.Standoff, n.OptimalStandoff))
		row("Δv", Quantity(n.DeltaV, 4, "m/s"))
	}
	if s := rep.Solar; s != nil {
		section("Solar")
		row("force", Quantity(s.Force, 3, "N"))
		row("Δv", Quantity(s.DeltaV, 4, "m/s"))
		row("along-track drift", Printer.Sprintf("%.0f km", s.AlongTrackDriftKm))
	}
	if d := rep.Deflected; d != nil {
		section("Deflected orbit (" + d.Strategy + ")")
		row("MOID", Printer.Sprintf("%.0f km", d.MOID.MOIDKm))
		row("MOID change", Printer.Sprintf("%+.1f km", d.MOIDChangeKm))
	}

	if n := rep.WarningCount(); n > 0 {
		section(Printer.Sprintf("Warnings (%d)", n))
		for _, msg := range rep.AllWarnings() {
			fmt.Fprintf(tw, "  - %s\n", msg)
		}
	}
	return tw.Flush()
}

// WriteList writes stored report summaries as a table.
func WriteList(w io.Writer, reports []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCENARIO\tCREATED\tENERGY (Mt)\tTORINO\tWARNINGS")
	for _, s := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.Scenario, s.CreatedAt.Format("2006-01-02 15:04"),
			Printer.Sprintf("%.2f", s.EnergyMt), s.Torino, s.Warnings)
	}
	return tw.Flush()
}
