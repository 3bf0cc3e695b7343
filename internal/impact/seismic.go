package impact

import (
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

// DefaultSeismicEfficiency is the fraction of impact energy radiated as
// seismic waves.
const DefaultSeismicEfficiency = 1e-4

// Moment calibration anchors: impact energy (J) and observed Mw. The fit
// is made in seismic energy, taking both events at the default efficiency.
var (
	tunguska    = struct{ energy, mw float64 }{4.2e16, 5.0}
	chelyabinsk = struct{ energy, mw float64 }{1.9e15, 2.7}
)

// momentFit is log10 M0 = a + b·log10 Es through both anchors.
var momentFit = func() struct{ a, b float64 } {
	m1 := 1.5*tunguska.mw + 9.1
	m2 := 1.5*chelyabinsk.mw + 9.1
	e1 := math.Log10(DefaultSeismicEfficiency * tunguska.energy)
	e2 := math.Log10(DefaultSeismicEfficiency * chelyabinsk.energy)
	b := (m1 - m2) / (e1 - e2)
	return struct{ a, b float64 }{m1 - b*e1, b}
}()

const (
	mmiFelt   = 3.0
	mmiDamage = 6.0
	cmPerG    = 980.665
)

type SeismicInput struct {
	Energy uncertainty.Value `json:"energy"` // J
	// Efficiency defaults to DefaultSeismicEfficiency.
	Efficiency  float64   `json:"efficiency,omitempty"`
	DistancesKm []float64 `json:"distances_km,omitempty"`
}

type SiteIntensity struct {
	DistanceKm float64 `json:"distance_km"`
	PGA        float64 `json:"pga_g"`
	MMI        float64 `json:"mmi"`
}

type SeismicResult struct {
	SeismicEnergy    uncertainty.Value `json:"seismic_energy"`
	SeismicMoment    uncertainty.Value `json:"seismic_moment"`
	MomentMagnitude  uncertainty.Value `json:"moment_magnitude"`
	RichterMagnitude uncertainty.Value `json:"richter_magnitude"`
	FeltRadiusKm     uncertainty.Value `json:"felt_radius_km"`
	DamageRadiusKm   uncertainty.Value `json:"damage_radius_km"`
	Sites            []SiteIntensity   `json:"sites,omitempty"`
	Validity         Validity          `json:"validity"`
}

func seismicMoment(es float64) float64 {
	return math.Pow(10, momentFit.a+momentFit.b*math.Log10(es))
}

// momentMagnitude is Mw for seismic energy es in joules.
func momentMagnitude(es float64) float64 {
	return (2.0 / 3) * (math.Log10(seismicMoment(es)) - 9.1)
}

func nearField(mw float64) float64 { return 0.149 * math.Exp(0.647*mw) }

// PeakGroundAcceleration in g at distance r (km), Campbell form.
func PeakGroundAcceleration(mw, rKm float64) float64 {
	c := nearField(mw)
	return math.Exp(-3.512 + 0.904*mw - 1.328*math.Log(math.Sqrt(rKm*rKm+c*c)))
}

// MercalliIntensity from PGA in g (Wald et al. 1999).
func MercalliIntensity(pgaG float64) float64 {
	return 3.66*math.Log10(pgaG*cmPerG) - 1.66
}

// IntensityRadius inverts the attenuation law: the distance (km) out to
// which intensity is at least mmi. Zero when even the epicentre falls short.
func IntensityRadius(mw, mmi float64) float64 {
	pga := math.Pow(10, (mmi+1.66)/3.66) / cmPerG
	lnR := (-3.512 + 0.904*mw - math.Log(pga)) / 1.328
	reff := math.Exp(lnR)
	c := nearField(mw)
	if reff <= c {
		return 0
	}
	return math.Sqrt(reff*reff - c*c)
}

func Seismic(in SeismicInput) SeismicResult {
	eta := in.Efficiency
	if eta <= 0 {
		eta = DefaultSeismicEfficiency
	}
	inputs := []uncertainty.Input{uncertainty.In("energy", in.Energy)}
	es := func(a uncertainty.Args) float64 { return eta * a.Get("energy") }
	mw := func(a uncertainty.Args) float64 { return momentMagnitude(es(a)) }
	prop := func(fn uncertainty.Func, unit string) uncertainty.Value {
		return uncertainty.MustPropagate(fn, inputs, unit)
	}

	res := SeismicResult{
		SeismicEnergy: uncertainty.Scale(in.Energy, eta),
		SeismicMoment: prop(func(a uncertainty.Args) float64 {
			return seismicMoment(es(a))
		}, "N m"),
		MomentMagnitude: prop(mw, ""),
		RichterMagnitude: prop(func(a uncertainty.Args) float64 {
			return 0.67*math.Log10(es(a)) - 5.87
		}, ""),
		FeltRadiusKm: prop(func(a uncertainty.Args) float64 {
			return IntensityRadius(mw(a), mmiFelt)
		}, "km"),
		DamageRadiusKm: prop(func(a uncertainty.Args) float64 {
			return IntensityRadius(mw(a), mmiDamage)
		}, "km"),
	}

	m := res.MomentMagnitude.Value
	for _, r := range in.DistancesKm {
		pga := PeakGroundAcceleration(m, r)
		res.Sites = append(res.Sites, SiteIntensity{DistanceKm: r, PGA: pga, MMI: MercalliIntensity(pga)})
	}

	var val validator
	val.energy(in.Energy.Value)
	val.finite("seismic efficiency", eta)
	val.outputs([]string{"moment magnitude", "felt radius", "damage radius"},
		res.MomentMagnitude, res.FeltRadiusKm, res.DamageRadiusKm)
	res.Validity = val.result(
		"moment calibrated on two airburst events only",
		"attenuation law fitted to tectonic earthquakes",
	)
	return res
}
