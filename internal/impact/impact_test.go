package impact

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

func exact(x float64, unit string) uncertainty.Value { return uncertainty.Exact(x, unit) }

func TestKineticEnergyScaling(t *testing.T) {
	rho := exact(3000, "kg/m3")
	base := KineticEnergy(exact(100, "m"), rho, exact(20, "km/s"))

	doubleD := KineticEnergy(exact(200, "m"), rho, exact(20, "km/s"))
	if r := doubleD.Value / base.Value; math.Abs(r-8) > 1e-12 {
		t.Errorf("doubling diameter: expected ×8, got ×%g", r)
	}

	doubleV := KineticEnergy(exact(100, "m"), rho, exact(40, "km/s"))
	if r := doubleV.Value / base.Value; math.Abs(r-4) > 1e-12 {
		t.Errorf("doubling velocity: expected ×4, got ×%g", r)
	}

	if base.Uncertainty != 0 {
		t.Errorf("exact inputs should give exact energy, got σ %g", base.Uncertainty)
	}

	m := Mass(exact(10, "m"), rho)
	if want := 3000 * math.Pi * 1000 / 6; math.Abs(m.Value-want) > 1e-6 {
		t.Errorf("expected mass %g, got %g", want, m.Value)
	}

	withSigma := KineticEnergy(uncertainty.New(100, 10, "m"), rho, exact(20, "km/s"))
	if rel := withSigma.RelativeUncertainty(); math.Abs(rel-0.3) > 1e-6 {
		t.Errorf("10%% diameter error should give 30%% energy error, got %g", rel)
	}
}

func sedimentary(t *testing.T) TargetMaterial {
	t.Helper()
	m, err := GetTargetMaterial("sedimentaryRock")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCraterMonotoneInEnergy(t *testing.T) {
	target := sedimentary(t)
	prev := 0.0
	for e := 1e12; e <= 1e21; e *= 10 {
		res := Crater(CraterInput{Energy: exact(e, "J"), AngleDeg: exact(45, "deg"), Target: target})
		if res.FinalDiameter.Value <= prev {
			t.Errorf("E=%g: diameter %g not above %g", e, res.FinalDiameter.Value, prev)
		}
		prev = res.FinalDiameter.Value
	}
}

func TestCraterRegimesMeet(t *testing.T) {
	target := sedimentary(t)
	c := craterModel{gravity: StandardGravity, dc: target.SimpleToComplex}
	rho, y := 2750.0, 2e7
	k1 := 0.9
	rg := rho * StandardGravity
	// Energy at which the gravity estimate equals the transition diameter.
	eStar := rg * math.Pow(y/rg/k1, 4)

	below, r1 := c.transient(eStar*0.999999, 90, rho, y, k1)
	above, r2 := c.transient(eStar*1.000001, 90, rho, y, k1)
	if r1 != RegimeStrength || r2 != RegimeGravity {
		t.Fatalf("expected strength then gravity, got %s, %s", r1, r2)
	}
	if math.Abs(above-below)/above > 1e-5 {
		t.Errorf("regimes disagree at the transition: %g vs %g", below, above)
	}
}

func TestCraterAngle(t *testing.T) {
	target := sedimentary(t)
	steep := Crater(CraterInput{Energy: exact(1e17, "J"), AngleDeg: exact(90, "deg"), Target: target})
	shallow := Crater(CraterInput{Energy: exact(1e17, "J"), AngleDeg: exact(30, "deg"), Target: target})
	if shallow.FinalDiameter.Value >= steep.FinalDiameter.Value {
		t.Errorf("30° crater %g should be smaller than 90° crater %g", shallow.FinalDiameter.Value, steep.FinalDiameter.Value)
	}
}

func TestBarringer(t *testing.T) {
	res := Crater(CraterInput{
		Energy:      uncertainty.New(1.5e16, 0.5e16, "J"),
		AngleDeg:    uncertainty.New(45, 10, "deg"),
		Target:      sedimentary(t),
		VelocityKmS: 12.8,
	})

	ratio := res.FinalDiameter.Value / 1200
	if ratio <= 0.05 || ratio >= 20 {
		t.Errorf("Barringer diameter ratio %g out of range", ratio)
	}
	if math.Abs(res.TransientDiameter.Value-860) > 20 {
		t.Errorf("expected transient diameter near 860 m, got %g", res.TransientDiameter.Value)
	}
	if res.Regime != RegimeGravity || res.Morphology != Simple {
		t.Errorf("expected simple gravity-regime crater, got %s/%s", res.Regime, res.Morphology)
	}
	if res.FinalDiameter.Uncertainty <= 0 {
		t.Error("expected a positive diameter uncertainty")
	}
	if !res.Validity.IsValid {
		t.Errorf("unexpected warnings %v", res.Validity.Warnings)
	}
	if math.Abs(res.Depth.Value-0.2*res.FinalDiameter.Value) > 1e-9 {
		t.Errorf("simple crater depth should be 0.2 D")
	}
	if res.RimHeight.Value <= 0 || res.EjectaVolume.Value <= 0 || res.FormationTime.Value <= 0 {
		t.Errorf("derived quantities must be positive: %+v", res)
	}
}

func TestCraterComplexAndStrength(t *testing.T) {
	target := sedimentary(t)
	big := Crater(CraterInput{Energy: exact(1e21, "J"), AngleDeg: exact(45, "deg"), Target: target})
	if big.Morphology != Complex {
		t.Errorf("expected complex crater, got %s", big.Morphology)
	}
	small := Crater(CraterInput{Energy: exact(1e12, "J"), AngleDeg: exact(45, "deg"), Target: target})
	if small.Regime != RegimeStrength {
		t.Errorf("expected strength regime, got %s", small.Regime)
	}
}

func TestCraterValidityWarnings(t *testing.T) {
	target := sedimentary(t)
	tests := []struct {
		name string
		in   CraterInput
	}{
		{"low energy", CraterInput{Energy: exact(1e5, "J"), AngleDeg: exact(45, "deg"), Target: target}},
		{"grazing", CraterInput{Energy: exact(1e16, "J"), AngleDeg: exact(5, "deg"), Target: target}},
		{"fast", CraterInput{Energy: exact(1e16, "J"), AngleDeg: exact(45, "deg"), Target: target, VelocityKmS: 90}},
		{"nan", CraterInput{Energy: exact(math.NaN(), "J"), AngleDeg: exact(45, "deg"), Target: target}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Crater(tt.in)
			if res.Validity.IsValid || len(res.Validity.Warnings) == 0 {
				t.Errorf("expected a warning, got %+v", res.Validity)
			}
		})
	}
}

func TestNonFiniteInputsAreFlagged(t *testing.T) {
	target := sedimentary(t)
	nanDensity := target
	nanDensity.Density = exact(math.NaN(), "kg/m3")
	zeroDensity := target
	zeroDensity.Density = exact(0, "kg/m3")
	thin := Atmospheres["seaLevel"]
	thin.Density = 0
	e := exact(1e16, "J")
	angle := exact(45, "deg")

	tests := []struct {
		name string
		run  func() Validity
	}{
		{"crater nan density", func() Validity {
			return Crater(CraterInput{Energy: e, AngleDeg: angle, Target: nanDensity}).Validity
		}},
		{"crater zero density", func() Validity {
			return Crater(CraterInput{Energy: e, AngleDeg: angle, Target: zeroDensity}).Validity
		}},
		{"crater inf energy", func() Validity {
			return Crater(CraterInput{Energy: exact(math.Inf(1), "J"), AngleDeg: angle, Target: target}).Validity
		}},
		{"crater nan gravity", func() Validity {
			return Crater(CraterInput{Energy: e, AngleDeg: angle, Target: target, Gravity: math.NaN()}).Validity
		}},
		{"blast nan energy", func() Validity {
			return Blast(BlastInput{Energy: exact(math.NaN(), "J"), Atmosphere: Atmospheres["seaLevel"]}).Validity
		}},
		{"blast inf energy", func() Validity {
			return Blast(BlastInput{Energy: exact(math.Inf(1), "J"), Atmosphere: Atmospheres["seaLevel"]}).Validity
		}},
		{"blast zero air density", func() Validity {
			return Blast(BlastInput{Energy: e, Atmosphere: thin}).Validity
		}},
		{"seismic nan energy", func() Validity {
			return Seismic(SeismicInput{Energy: exact(math.NaN(), "J")}).Validity
		}},
		{"seismic inf energy", func() Validity {
			return Seismic(SeismicInput{Energy: exact(math.Inf(1), "J")}).Validity
		}},
		{"seismic nan efficiency", func() Validity {
			return Seismic(SeismicInput{Energy: e, Efficiency: math.NaN()}).Validity
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.run()
			if v.IsValid || len(v.Warnings) == 0 {
				t.Errorf("expected the result to be flagged, got %+v", v)
			}
		})
	}
}

func TestCraterNaNPropagates(t *testing.T) {
	target := sedimentary(t)
	target.Density = exact(math.NaN(), "kg/m3")
	res := Crater(CraterInput{Energy: exact(1e16, "J"), AngleDeg: exact(45, "deg"), Target: target})
	if !math.IsNaN(res.TransientDiameter.Value) || !math.IsNaN(res.FinalDiameter.Value) {
		t.Errorf("NaN density should give NaN diameters, got %g and %g",
			res.TransientDiameter.Value, res.FinalDiameter.Value)
	}
}

func TestUnknownKeys(t *testing.T) {
	_, err := GetTargetMaterial("lava")
	var uk *UnknownKeyError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKeyError, got %v", err)
	}
	if err.Error() != "Unknown target material: lava" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, err := GetImpactor("plasma"); err == nil {
		t.Error("expected error for unknown impactor")
	}
	if _, err := GetAtmosphere("venus"); err == nil {
		t.Error("expected error for unknown atmosphere")
	}
	if got := Keys(Impactors); len(got) != 4 || got[0] != "carbonaceous" {
		t.Errorf("unexpected keys %v", got)
	}
}

func TestBlast(t *testing.T) {
	sea := Atmospheres["seaLevel"]
	oneKt := Blast(BlastInput{Energy: exact(4.184e12, "J"), Atmosphere: sea})

	if math.Abs(oneKt.YieldKt.Value-1) > 1e-12 {
		t.Errorf("expected 1 kt, got %g", oneKt.YieldKt.Value)
	}
	if math.Abs(oneKt.FireballRadius.Value-66) > 1e-9 {
		t.Errorf("expected 66 m fireball, got %g", oneKt.FireballRadius.Value)
	}
	for i := 1; i < len(oneKt.Overpressure); i++ {
		if oneKt.Overpressure[i].Radius.Value <= oneKt.Overpressure[i-1].Radius.Value {
			t.Errorf("overpressure rings out of order at %s", oneKt.Overpressure[i].Label)
		}
	}

	eightKt := Blast(BlastInput{Energy: exact(8*4.184e12, "J"), Atmosphere: sea})
	if r := eightKt.Overpressure[2].Radius.Value / oneKt.Overpressure[2].Radius.Value; math.Abs(r-2) > 1e-9 {
		t.Errorf("8× yield should double the 5 psi radius, got ×%g", r)
	}

	high := Blast(BlastInput{Energy: exact(4.184e12, "J"), Atmosphere: Atmospheres["highAltitude"]})
	if high.Overpressure[0].Radius.Value <= oneKt.Overpressure[0].Radius.Value {
		t.Error("thinner air should widen the overpressure radius")
	}

	humid := Blast(BlastInput{Energy: exact(4.184e15, "J"), Atmosphere: Atmospheres["tropical"]})
	dry := Blast(BlastInput{Energy: exact(4.184e15, "J"), Atmosphere: Atmospheres["arctic"]})
	if humid.Thermal[0].Radius.Value >= dry.Thermal[0].Radius.Value {
		t.Error("humidity should shorten thermal radii")
	}
}

func TestBreakupAltitude(t *testing.T) {
	rocky := Impactors["rocky"]
	sea := Atmospheres["seaLevel"]

	res := Blast(BlastInput{Energy: exact(2e15, "J"), Atmosphere: sea, Impactor: &rocky, VelocityKmS: exact(17, "km/s")})
	want := 8000 * math.Log(1.225*17e3*17e3/1e7)
	if math.Abs(res.BreakupAltitude.Value-want) > 1e-6 {
		t.Errorf("expected breakup at %g m, got %g", want, res.BreakupAltitude.Value)
	}
	if !res.Airburst {
		t.Error("expected an airburst")
	}

	iron := Impactor{Name: "iron", Density: exact(7800, "kg/m3"), Strength: exact(1e10, "Pa")}
	ground := BreakupAltitude(iron, exact(12, "km/s"), sea)
	if ground.Value != 0 {
		t.Errorf("strong body should reach the ground, got %g m", ground.Value)
	}
}

func TestSeismicAnchors(t *testing.T) {
	tests := []struct {
		energy, mw float64
	}{
		{4.2e16, 5.0},
		{1.9e15, 2.7},
	}
	for _, tt := range tests {
		res := Seismic(SeismicInput{Energy: exact(tt.energy, "J")})
		if math.Abs(res.MomentMagnitude.Value-tt.mw) > 1e-9 {
			t.Errorf("E=%g: expected Mw %g, got %g", tt.energy, tt.mw, res.MomentMagnitude.Value)
		}
		want := 0.67*math.Log10(1e-4*tt.energy) - 5.87
		if math.Abs(res.RichterMagnitude.Value-want) > 1e-9 {
			t.Errorf("E=%g: expected Richter %g, got %g", tt.energy, want, res.RichterMagnitude.Value)
		}
	}
}

func TestSeismicRadii(t *testing.T) {
	small := Seismic(SeismicInput{Energy: exact(1e16, "J")})
	big := Seismic(SeismicInput{Energy: exact(1e19, "J"), DistancesKm: []float64{10, 100, 1000}})

	if big.FeltRadiusKm.Value <= small.FeltRadiusKm.Value {
		t.Error("felt radius should grow with energy")
	}
	if big.DamageRadiusKm.Value >= big.FeltRadiusKm.Value {
		t.Error("damage radius should be inside the felt radius")
	}

	// The felt radius is where the attenuation law gives MMI III.
	r := big.FeltRadiusKm.Value
	mmi := MercalliIntensity(PeakGroundAcceleration(big.MomentMagnitude.Value, r))
	if math.Abs(mmi-3) > 1e-6 {
		t.Errorf("expected MMI 3 at the felt radius, got %g", mmi)
	}

	for i := 1; i < len(big.Sites); i++ {
		if big.Sites[i].MMI >= big.Sites[i-1].MMI {
			t.Errorf("intensity should fall with distance: %+v", big.Sites)
		}
	}

	if IntensityRadius(9, mmiDamage) <= IntensityRadius(5, mmiDamage) {
		t.Error("damage radius should grow with magnitude")
	}
}

func TestSeismicEfficiency(t *testing.T) {
	e := exact(1e17, "J")
	def := Seismic(SeismicInput{Energy: e})
	low := Seismic(SeismicInput{Energy: e, Efficiency: DefaultSeismicEfficiency})
	high := Seismic(SeismicInput{Energy: e, Efficiency: 1e-2})

	if math.Abs(def.MomentMagnitude.Value-low.MomentMagnitude.Value) > 1e-12 {
		t.Errorf("default efficiency should match %g: %g vs %g", DefaultSeismicEfficiency,
			def.MomentMagnitude.Value, low.MomentMagnitude.Value)
	}
	if high.SeismicEnergy.Value <= low.SeismicEnergy.Value {
		t.Error("seismic energy should grow with efficiency")
	}
	if high.MomentMagnitude.Value <= low.MomentMagnitude.Value {
		t.Errorf("Mw should grow with efficiency: %g vs %g", high.MomentMagnitude.Value, low.MomentMagnitude.Value)
	}
	if high.SeismicMoment.Value <= low.SeismicMoment.Value {
		t.Error("seismic moment should grow with efficiency")
	}
	if high.FeltRadiusKm.Value <= low.FeltRadiusKm.Value {
		t.Errorf("felt radius should grow with efficiency: %g vs %g km", high.FeltRadiusKm.Value, low.FeltRadiusKm.Value)
	}
}

func TestTorinoScale(t *testing.T) {
	tests := []struct {
		name   string
		p, emt float64
		want   int
	}{
		{"no risk", 0, 1e4, 0},
		{"tiny body", 0.5, 0.1, 0},
		{"normal", 1e-7, 10, 1},
		{"apophis 2004", 0.027, 500, 4},
		{"localized", 0.05, 50, 3},
		{"certain local", 1, 10, 8},
		{"certain regional", 1, 5e3, 9},
		{"certain global", 1, 1e6, 10},
		{"threat global", 1e-3, 1e6, 6},
		{"threat regional", 1e-3, 5e3, 5},
		{"close global", 0.05, 1e6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TorinoScale(tt.p, tt.emt); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPalermoScale(t *testing.T) {
	e, years := 100.0, 20.0
	p := BackgroundImpactFrequency(e) * years
	if got := PalermoScale(p, e, years); math.Abs(got) > 1e-12 {
		t.Errorf("background-level risk should score 0, got %g", got)
	}
	if got := PalermoScale(10*p, e, years); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1, got %g", got)
	}
	if !math.IsInf(PalermoScale(0, e, years), -1) {
		t.Error("zero probability should score -Inf")
	}
}
