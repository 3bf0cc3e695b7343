package deflection_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

func rocky() deflection.Composition {
	c, err := deflection.GetComposition("rocky")
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Kinetic impactor", func() {
	var (
		target     deflection.Asteroid
		spacecraft deflection.Impactor
	)

	BeforeEach(func() {
		target = deflection.Asteroid{
			Name:        "Dimorphos",
			Diameter:    uncertainty.New(160, 10, "m"),
			Mass:        uncertainty.New(4.3e9, 0.4e9, "kg"),
			Composition: rocky(),
		}
		spacecraft = deflection.Impactor{
			Mass:     uncertainty.Exact(580, "kg"),
			Velocity: uncertainty.Exact(6.14, "km/s"),
			AngleDeg: uncertainty.Exact(0, "deg"),
		}
	})

	It("splits the momentum into direct and β-enhanced ejecta parts", func() {
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft})

		direct := 580 * 6140.0
		Expect(res.DirectMomentum.Value).To(BeNumerically("~", direct, 1e-6))
		Expect(res.EjectaMomentum.Value).To(BeNumerically("~", 2*direct, 1e-6))
		Expect(res.TotalMomentum.Value).To(BeNumerically("~", 3*direct, 1e-6))
		Expect(res.DeltaV.Value).To(BeNumerically("~", 3*direct/4.3e9, 1e-12))
		Expect(res.DeltaV.Uncertainty).To(BeNumerically(">", 0))
		Expect(res.WithinValidityRange).To(BeTrue())
	})

	It("sizes the ejecta from the crater on the asteroid", func() {
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft})

		Expect(res.CraterDiameter.Value).To(BeNumerically(">", 1))
		Expect(res.EjectaMass.Value).To(BeNumerically(">", 0))
		Expect(res.EjectaVelocity.Value * res.EjectaMass.Value).To(BeNumerically("~", res.EjectaMomentum.Value, 1e-3*res.EjectaMomentum.Value))
	})

	It("reports the along-track shift for a lead time", func() {
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft, LeadTimeDays: 365})
		want := 3 * res.DeltaV.Value * 365 * 86400 / 1e3
		Expect(res.AlongTrackShiftKm).To(BeNumerically("~", want, 1e-9))
	})

	It("loses momentum at oblique incidence and warns", func() {
		spacecraft.AngleDeg = uncertainty.Exact(70, "deg")
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft})

		Expect(res.DirectMomentum.Value).To(BeNumerically("~", 580*6140*math.Cos(70*math.Pi/180), 1e-6))
		Expect(res.WithinValidityRange).To(BeFalse())
		Expect(res.Warnings).To(ContainElement(ContainSubstring("oblique")))
	})

	It("warns when β is implausible", func() {
		target.Composition.Beta = uncertainty.Exact(8, "")
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft})
		Expect(res.Warnings).To(ContainElement(ContainSubstring("β factor")))
	})

	It("flags disruption of a small body", func() {
		target.Mass = uncertainty.Exact(1e5, "kg")
		target.Diameter = uncertainty.Exact(4, "m")
		res := deflection.Kinetic(deflection.KineticInput{Asteroid: target, Impactor: spacecraft})
		Expect(res.SpecificEnergy).To(BeNumerically(">", target.Composition.DisruptionThreshold))
		Expect(res.Warnings).To(ContainElement(ContainSubstring("disruption")))
	})

	It("derives the mass from diameter and density when none is given", func() {
		target.Mass = uncertainty.Value{}
		want := 2600 * math.Pi * 160 * 160 * 160 / 6
		Expect(target.MassValue().Value).To(BeNumerically("~", want, 1e-3))
	})
})

var _ = Describe("Reference tables", func() {
	It("rejects unknown keys with a typed error", func() {
		_, err := deflection.GetDevice("tsar")
		var uk *impact.UnknownKeyError
		Expect(errors.As(err, &uk)).To(BeTrue())
		Expect(err).To(MatchError("Unknown nuclear device: tsar"))

		_, err = deflection.GetComposition("cheese")
		Expect(err).To(MatchError("Unknown composition: cheese"))
		_, err = deflection.GetSail("kite")
		Expect(err).To(MatchError("Unknown solar sail: kite"))
	})

	It("keeps device energy fractions within the yield", func() {
		for name, d := range deflection.Devices {
			Expect(d.XRayFraction+d.NeutronFraction+d.DebrisFraction).To(BeNumerically("<=", 1), name)
		}
	})
})
