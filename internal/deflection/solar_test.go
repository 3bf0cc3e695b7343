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

var _ = Describe("Solar radiation", func() {
	var in deflection.SolarInput

	BeforeEach(func() {
		sail, err := deflection.GetSail("flat")
		Expect(err).NotTo(HaveOccurred())
		in = deflection.SolarInput{
			Asteroid:    deflection.Asteroid{Diameter: uncertainty.New(300, 20, "m"), Composition: rocky()},
			Method:      deflection.FlatSail,
			Sail:        sail,
			DistanceAU:  1,
			DurationYrs: 5,
		}
	})

	It("follows the inverse-square pressure law", func() {
		p1 := deflection.RadiationPressure(1)
		Expect(p1).To(BeNumerically("~", 1361/299792458.0, 1e-15))
		Expect(deflection.RadiationPressure(2)).To(BeNumerically("~", p1/4, 1e-15))
	})

	It("integrates a sun-facing flat sail into a radial Δv", func() {
		res, err := deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())

		force := deflection.RadiationPressure(1) * 1e4 * 1.9 * 0.85
		Expect(res.Force.Value).To(BeNumerically("~", force, 1e-9))
		Expect(res.Radial).To(BeNumerically("~", force, 1e-9))
		Expect(res.Tangential).To(BeNumerically("~", 0, 1e-15))

		t := 5 * 365.25 * 86400
		Expect(res.DeltaV.Value).To(BeNumerically("~", force/in.Asteroid.MassValue().Value*t, 1e-12))
		Expect(res.EffectiveYears).To(Equal(5.0))
		Expect(res.WithinValidityRange).To(BeTrue(), "%v", res.Warnings)
	})

	It("picks a default collector for sail and mirror methods", func() {
		sail, ok := deflection.DefaultSail(deflection.ConcentratedMirror)
		Expect(ok).To(BeTrue())
		Expect(sail.Name).To(Equal("parabolic concentrator"))
		_, ok = deflection.DefaultSail(deflection.AlbedoChange)
		Expect(ok).To(BeFalse())
	})

	It("clamps the duration to the sail lifetime", func() {
		in.DurationYrs = 20
		res, err := deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.EffectiveYears).To(Equal(in.Sail.LifetimeYears))
		Expect(res.Warnings).To(ContainElement(ContainSubstring("lifetime")))
	})

	It("tilts the force with the cone and clock angles", func() {
		in.ConeDeg = 35
		res, err := deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Tangential).To(BeNumerically(">", 0))
		Expect(res.Normal).To(BeNumerically("~", 0, 1e-15))
		Expect(res.DeltaA).To(BeNumerically(">", 0))
		Expect(res.AlongTrackDriftKm).To(BeNumerically(">", 0))

		in.ClockDeg = 90
		res, err = deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.Abs(res.Tangential)).To(BeNumerically("<", 1e-12))
		Expect(res.DeltaI).To(BeNumerically(">", 0))
	})

	It("pushes along track when the albedo is modified", func() {
		in.Method = deflection.AlbedoModification
		in.AlbedoDelta = uncertainty.New(0.1, 0.02, "")
		res, err := deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Radial).To(Equal(0.0))
		Expect(res.Tangential).To(BeNumerically(">", 0))
		Expect(res.DeltaV.Uncertainty).To(BeNumerically(">", 0))
	})

	It("warns about oversized sails and close solar distance", func() {
		in.Sail.Area = uncertainty.Exact(2e6, "m2")
		in.DistanceAU = 0.2
		res, err := deflection.Solar(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Warnings).To(HaveLen(2))
	})

	It("rejects unknown methods", func() {
		in.Method = "tractorBeam"
		_, err := deflection.Solar(in)
		var uk *impact.UnknownKeyError
		Expect(errors.As(err, &uk)).To(BeTrue())
		Expect(err).To(MatchError("Unknown solar method: tractorBeam"))
	})
})
