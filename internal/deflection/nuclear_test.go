package deflection_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

var _ = Describe("Nuclear standoff", func() {
	var (
		target deflection.Asteroid
		device deflection.NuclearDevice
	)

	BeforeEach(func() {
		target = deflection.Asteroid{Diameter: uncertainty.New(500, 25, "m"), Composition: rocky()}
		var err error
		device, err = deflection.GetDevice("mediumYield")
		Expect(err).NotTo(HaveOccurred())
	})

	It("places the burst at the empirical optimum", func() {
		Expect(deflection.OptimalStandoff(250, 1000)).To(BeNumerically("~", 750, 1e-9))
		Expect(deflection.OptimalStandoff(250, 10000)).To(BeNumerically("~", 750*1.99526, 1e-2))

		res := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: device})
		Expect(res.Standoff).To(BeNumerically("~", 750, 1e-9))
		Expect(res.GeometricFraction).To(BeNumerically("~", deflection.GeometricFraction(250, 750), 1e-15))
		Expect(res.WithinValidityRange).To(BeTrue(), "%v", res.Warnings)
	})

	It("sums the mechanisms into the total momentum", func() {
		res := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: device})
		sum := res.XRayMomentum.Value + res.NeutronMomentum.Value + res.DebrisMomentum.Value
		Expect(res.TotalMomentum.Value).To(BeNumerically("~", sum, 1e-9*sum))
		Expect(res.DeltaV.Value).To(BeNumerically("~", sum/target.MassValue().Value, 1e-12))
		Expect(res.DeltaV.Uncertainty).To(BeNumerically(">", 0))
	})

	It("intercepts half the burst at zero height and less further out", func() {
		Expect(deflection.GeometricFraction(100, 0)).To(BeNumerically("~", 0.5, 1e-15))
		Expect(deflection.GeometricFraction(100, 50)).To(BeNumerically(">", deflection.GeometricFraction(100, 500)))
	})

	It("scales with yield", func() {
		low, _ := deflection.GetDevice("lowYield")
		high, _ := deflection.GetDevice("highYield")
		a := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: low})
		b := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: high})
		Expect(b.DeltaV.Value).To(BeNumerically(">", a.DeltaV.Value))
	})

	It("warns about a standoff far from the optimum", func() {
		res := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: device, Standoff: 100})
		Expect(res.Standoff).To(Equal(100.0))
		Expect(res.WithinValidityRange).To(BeFalse())
		Expect(res.Warnings).To(ContainElement(ContainSubstring("optimum")))
	})

	It("warns about inconsistent energy fractions", func() {
		device.XRayFraction, device.NeutronFraction, device.DebrisFraction = 0.6, 0.3, 0.3
		res := deflection.Nuclear(deflection.NuclearInput{Asteroid: target, Device: device})
		Expect(res.Warnings).To(ContainElement(ContainSubstring("fractions")))
	})

	It("warns about disruption of a small body", func() {
		high, _ := deflection.GetDevice("highYield")
		small := deflection.Asteroid{Diameter: uncertainty.Exact(50, "m"), Composition: rocky()}
		res := deflection.Nuclear(deflection.NuclearInput{Asteroid: small, Device: high})
		Expect(res.DepositedEnergy.Value).To(BeNumerically(">", res.BindingEnergy))
		Expect(res.Warnings).To(ContainElement(ContainSubstring("fragmentation")))
	})
})
