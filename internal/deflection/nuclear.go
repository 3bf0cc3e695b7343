package deflection

import (
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
	"github.com/san-kum/neoshield/internal/units"
)

// Fraction of deposited energy that ends up as blow-off kinetic energy.
const (
	xrayAblationEfficiency    = 0.1
	neutronAblationEfficiency = 0.2
)

const (
	MinStandoffRatio = 0.25
	MaxStandoffRatio = 4.0
)

type NuclearInput struct {
	Asteroid Asteroid      `json:"asteroid"`
	Device   NuclearDevice `json:"device"`
	// Standoff height above the surface in metres; zero uses OptimalStandoff.
	Standoff float64 `json:"standoff,omitempty"`
}

type NuclearResult struct {
	Standoff            float64           `json:"standoff"` // m
	OptimalStandoff     float64           `json:"optimal_standoff"`
	GeometricFraction   float64           `json:"geometric_fraction"`
	XRayEnergy          uncertainty.Value `json:"xray_energy"` // J deposited
	NeutronEnergy       uncertainty.Value `json:"neutron_energy"`
	XRayMomentum        uncertainty.Value `json:"xray_momentum"` // kg m/s
	NeutronMomentum     uncertainty.Value `json:"neutron_momentum"`
	DebrisMomentum      uncertainty.Value `json:"debris_momentum"`
	TotalMomentum       uncertainty.Value `json:"total_momentum"`
	DeltaV              uncertainty.Value `json:"delta_v"` // m/s
	DepositedEnergy     uncertainty.Value `json:"deposited_energy"`
	BindingEnergy       float64           `json:"binding_energy"`
	Warnings            []string          `json:"warnings,omitempty"`
	WithinValidityRange bool              `json:"within_validity_range"`
}

// OptimalStandoff is the empirical 3R·(Y/1 Mt)^0.3 rule, in metres.
func OptimalStandoff(radius, yieldKt float64) float64 {
	return 3 * radius * math.Pow(yieldKt/1000, 0.3)
}

// GeometricFraction is the share of an isotropic burst at height h above
// a sphere of radius r that the sphere intercepts.
func GeometricFraction(r, h float64) float64 {
	s := r / (r + h)
	return (1 - math.Sqrt(1-s*s)) / 2
}

// Nuclear computes the momentum a standoff burst delivers through X-ray
// and neutron ablation plus debris impact.
func Nuclear(in NuclearInput) NuclearResult {
	ast, dev := in.Asteroid, in.Device
	comp := ast.Composition
	r := ast.Radius()

	res := NuclearResult{
		OptimalStandoff: OptimalStandoff(r, dev.Yield.Value),
		BindingEnergy:   ast.BindingEnergy(),
	}
	res.Standoff = in.Standoff
	if res.Standoff <= 0 {
		res.Standoff = res.OptimalStandoff
	}
	res.GeometricFraction = GeometricFraction(r, res.Standoff)
	fGeo := res.GeometricFraction

	inputs := append([]uncertainty.Input{
		uncertainty.In("yield", dev.Yield),
		uncertainty.In("xray_coupling", comp.XRayCoupling),
		uncertainty.In("neutron_coupling", comp.NeutronCoupling),
		uncertainty.In("qvap", comp.VaporizationEnergy),
	}, ast.massInputs()...)

	yieldJ := func(a uncertainty.Args) float64 { return a.Get("yield") * units.JoulesPerKilotonTNT }
	xrayE := func(a uncertainty.Args) float64 {
		return yieldJ(a) * dev.XRayFraction * fGeo * a.Get("xray_coupling")
	}
	neutronE := func(a uncertainty.Args) float64 {
		return yieldJ(a) * dev.NeutronFraction * fGeo * a.Get("neutron_coupling")
	}
	ablation := func(e, eta float64, a uncertainty.Args) float64 {
		return e * math.Sqrt(2*eta/a.Get("qvap"))
	}
	xrayP := func(a uncertainty.Args) float64 { return ablation(xrayE(a), xrayAblationEfficiency, a) }
	neutronP := func(a uncertainty.Args) float64 { return ablation(neutronE(a), neutronAblationEfficiency, a) }
	debrisP := func(a uncertainty.Args) float64 {
		return math.Sqrt(2*dev.Mass*yieldJ(a)*dev.DebrisFraction) * fGeo
	}
	total := func(a uncertainty.Args) float64 { return xrayP(a) + neutronP(a) + debrisP(a) }
	prop := func(fn uncertainty.Func, unit string) uncertainty.Value {
		return uncertainty.MustPropagate(fn, inputs, unit)
	}

	res.XRayEnergy = prop(xrayE, "J")
	res.NeutronEnergy = prop(neutronE, "J")
	res.XRayMomentum = prop(xrayP, "kg m/s")
	res.NeutronMomentum = prop(neutronP, "kg m/s")
	res.DebrisMomentum = prop(debrisP, "kg m/s")
	res.TotalMomentum = prop(total, "kg m/s")
	res.DeltaV = prop(func(a uncertainty.Args) float64 { return total(a) / ast.massFrom(a) }, "m/s")
	res.DepositedEnergy = prop(func(a uncertainty.Args) float64 {
		return xrayE(a) + neutronE(a) + yieldJ(a)*dev.DebrisFraction*fGeo
	}, "J")

	var w warnings
	if sum := dev.XRayFraction + dev.NeutronFraction + dev.DebrisFraction; sum > 1+1e-9 {
		w.add("device energy fractions sum to %.2f, above 1", sum)
	}
	if ratio := res.Standoff / res.OptimalStandoff; ratio < MinStandoffRatio || ratio > MaxStandoffRatio {
		w.add("standoff %.0f m is %.2f× the optimum %.0f m", res.Standoff, ratio, res.OptimalStandoff)
	}
	disruption := res.BindingEnergy + comp.DisruptionThreshold*ast.MassValue().Value
	if res.DepositedEnergy.Value > disruption {
		w.add("deposited energy %.3g J exceeds disruption energy %.3g J; fragmentation likely", res.DepositedEnergy.Value, disruption)
	}
	if math.IsNaN(res.Standoff) || math.IsInf(res.Standoff, 0) {
		w.add("non-finite standoff %g m", res.Standoff)
	}
	w.finite("deposited energy", res.DepositedEnergy)
	w.finite("total momentum", res.TotalMomentum)
	w.finite("Δv", res.DeltaV)
	res.Warnings = w
	res.WithinValidityRange = len(w) == 0
	return res
}
