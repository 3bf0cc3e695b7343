package impact

import (
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

type CraterInput struct {
	Energy   uncertainty.Value `json:"energy"`    // J
	AngleDeg uncertainty.Value `json:"angle_deg"` // from horizontal
	Target   TargetMaterial    `json:"target"`
	// Gravity in m/s²; zero means Earth.
	Gravity float64 `json:"gravity,omitempty"`
	// VelocityKmS is only used for the validity check; zero skips it.
	VelocityKmS float64 `json:"velocity_km_s,omitempty"`
}

type CraterResult struct {
	TransientDiameter uncertainty.Value `json:"transient_diameter"`
	FinalDiameter     uncertainty.Value `json:"final_diameter"`
	Depth             uncertainty.Value `json:"depth"`
	Volume            uncertainty.Value `json:"volume"`
	RimHeight         uncertainty.Value `json:"rim_height"`
	EjectaVolume      uncertainty.Value `json:"ejecta_volume"`
	EjectaRange       uncertainty.Value `json:"ejecta_range"`
	FormationTime     uncertainty.Value `json:"formation_time"`
	Regime            string            `json:"regime"`
	Morphology        string            `json:"morphology"`
	Validity          Validity          `json:"validity"`
}

const (
	RegimeGravity  = "gravity"
	RegimeStrength = "strength"
	Simple         = "simple"
	Complex        = "complex"
)

type craterModel struct {
	gravity float64
	dc      float64
}

// transient returns the transient crater diameter in metres. The strength
// regime uses K1^(4/3) so that both laws meet at the transition diameter.
func (c craterModel) transient(energy, angleDeg, density, strength, k1 float64) (float64, string) {
	sinA := math.Sin(angleDeg * math.Pi / 180)
	eff := energy * math.Cbrt(math.Max(sinA, 0))
	rg := density * c.gravity
	dg := k1 * math.Pow(eff/rg, 0.25)
	if strength <= 0 {
		return dg, RegimeGravity
	}
	dt := strength / rg
	if math.IsNaN(dg) || math.IsNaN(dt) {
		return math.NaN(), RegimeGravity
	}
	if dg >= dt {
		return dg, RegimeGravity
	}
	return math.Pow(k1, 4.0/3) * math.Cbrt(eff/strength), RegimeStrength
}

func (c craterModel) final(dtc float64) (float64, string) {
	simple := 1.25 * dtc
	if simple <= c.dc {
		return simple, Simple
	}
	return 1.17 * math.Pow(dtc, 1.13) / math.Pow(c.dc, 0.13), Complex
}

func depth(d float64, morph string) float64 {
	if morph == Simple {
		return 0.2 * d
	}
	return 0.294 * math.Pow(d/1e3, 0.301) * 1e3
}

// Crater sizes the crater left by a surface impact. Uncertainties come
// from numeric-partial propagation over energy, angle, target density,
// strength and coupling.
func Crater(in CraterInput) CraterResult {
	g := in.Gravity
	if g <= 0 {
		g = StandardGravity
	}
	model := craterModel{gravity: g, dc: in.Target.SimpleToComplex}
	if model.dc <= 0 {
		model.dc = 3000
	}

	inputs := []uncertainty.Input{
		uncertainty.In("energy", in.Energy),
		uncertainty.In("angle", in.AngleDeg),
		uncertainty.In("density", in.Target.Density),
		uncertainty.In("strength", in.Target.Strength),
		uncertainty.In("k1", in.Target.Coupling),
	}
	tr := func(a uncertainty.Args) float64 {
		d, _ := model.transient(a.Get("energy"), a.Get("angle"), a.Get("density"), a.Get("strength"), a.Get("k1"))
		return d
	}
	fin := func(a uncertainty.Args) float64 {
		d, _ := model.final(tr(a))
		return d
	}
	prop := func(fn uncertainty.Func, unit string) uncertainty.Value {
		return uncertainty.MustPropagate(fn, inputs, unit)
	}

	dtc, regime := model.transient(in.Energy.Value, in.AngleDeg.Value, in.Target.Density.Value, in.Target.Strength.Value, in.Target.Coupling.Value)
	_, morph := model.final(dtc)

	depthFn := func(a uncertainty.Args) float64 {
		d, m := model.final(tr(a))
		return depth(d, m)
	}

	res := CraterResult{
		TransientDiameter: prop(tr, "m"),
		FinalDiameter:     prop(fin, "m"),
		Depth:             prop(depthFn, "m"),
		Volume: prop(func(a uncertainty.Args) float64 {
			d := fin(a)
			return math.Pi * d * d * depthFn(a) / 8
		}, "m3"),
		RimHeight: prop(func(a uncertainty.Args) float64 {
			t, d := tr(a), fin(a)
			return 0.07 * t * t * t * t / (d * d * d)
		}, "m"),
		EjectaVolume: prop(func(a uncertainty.Args) float64 {
			t := tr(a)
			return 0.5 * math.Pi * t * t * t / (16 * math.Sqrt2)
		}, "m3"),
		EjectaRange: prop(func(a uncertainty.Args) float64 {
			return 2.3 * fin(a) / 2
		}, "m"),
		FormationTime: prop(func(a uncertainty.Args) float64 {
			return 0.8 * math.Sqrt(tr(a)/g)
		}, "s"),
		Regime:     regime,
		Morphology: morph,
	}

	var val validator
	val.energy(in.Energy.Value)
	val.angle(in.AngleDeg.Value)
	if in.VelocityKmS != 0 {
		val.velocity(in.VelocityKmS)
	}
	val.finite("target density", in.Target.Density.Value)
	val.finite("target strength", in.Target.Strength.Value)
	val.finite("coupling constant", in.Target.Coupling.Value)
	val.finite("gravity", g)
	val.outputs([]string{"transient diameter", "final diameter", "depth", "volume"},
		res.TransientDiameter, res.FinalDiameter, res.Depth, res.Volume)
	res.Validity = val.result(
		"point-source scaling in a homogeneous half-space",
		"no atmospheric entry losses; energy is taken at the surface",
	)
	return res
}
