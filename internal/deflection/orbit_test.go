package deflection_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/ephemeris"
	"github.com/san-kum/neoshield/internal/kepler"
)

var _ = Describe("ApplyDeltaV", func() {
	circular := ephemeris.Elements{SemiMajorAxis: 1, Epoch: ephemeris.J2000, Frame: ephemeris.J2000Ecliptic}
	solver := kepler.NewSolver()

	It("leaves the orbit unchanged for a zero impulse", func() {
		out, err := deflection.ApplyDeltaV(circular, ephemeris.J2000, deflection.RTN{}, solver)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.SemiMajorAxis).To(BeNumerically("~", 1, 1e-12))
		Expect(out.Eccentricity).To(BeNumerically("<", 1e-10))
	})

	It("raises the orbit with a prograde impulse", func() {
		out, err := deflection.ApplyDeltaV(circular, ephemeris.J2000, deflection.RTN{Transverse: 10}, solver)
		Expect(err).NotTo(HaveOccurred())

		v := math.Sqrt(ephemeris.MuSun) * ephemeris.AUm / 86400
		Expect(out.SemiMajorAxis - 1).To(BeNumerically("~", 2*10/v, 1e-2*2*10/v))
		Expect(out.Eccentricity).To(BeNumerically(">", 0))
	})

	It("tilts the orbit with a normal impulse", func() {
		out, err := deflection.ApplyDeltaV(circular, ephemeris.J2000, deflection.RTN{Normal: 100}, solver)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Inclination).To(BeNumerically(">", 0))
		Expect(out.Epoch).To(Equal(ephemeris.J2000))
	})
})
