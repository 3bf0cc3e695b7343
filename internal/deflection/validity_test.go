package deflection_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neoshield/internal/deflection"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

var _ = DescribeTable("non-finite results",
	func(run func() (bool, []string)) {
		within, warnings := run()
		Expect(within).To(BeFalse())
		Expect(warnings).To(ContainElement(ContainSubstring("non-finite")))
	},
	Entry("kinetic with a NaN impactor velocity", func() (bool, []string) {
		res := deflection.Kinetic(deflection.KineticInput{
			Asteroid: deflection.Asteroid{Diameter: uncertainty.Exact(160, "m"), Composition: rocky()},
			Impactor: deflection.Impactor{
				Mass:     uncertainty.Exact(580, "kg"),
				Velocity: uncertainty.Exact(math.NaN(), "km/s"),
				AngleDeg: uncertainty.Exact(0, "deg"),
			},
		})
		return res.WithinValidityRange, res.Warnings
	}),
	Entry("kinetic with an infinite impactor mass", func() (bool, []string) {
		res := deflection.Kinetic(deflection.KineticInput{
			Asteroid: deflection.Asteroid{Diameter: uncertainty.Exact(160, "m"), Composition: rocky()},
			Impactor: deflection.Impactor{
				Mass:     uncertainty.Exact(math.Inf(1), "kg"),
				Velocity: uncertainty.Exact(6, "km/s"),
				AngleDeg: uncertainty.Exact(0, "deg"),
			},
		})
		return res.WithinValidityRange, res.Warnings
	}),
	Entry("nuclear with a NaN yield", func() (bool, []string) {
		dev, err := deflection.GetDevice("mediumYield")
		Expect(err).NotTo(HaveOccurred())
		dev.Yield = uncertainty.Exact(math.NaN(), "kt")
		res := deflection.Nuclear(deflection.NuclearInput{
			Asteroid: deflection.Asteroid{Diameter: uncertainty.Exact(500, "m"), Composition: rocky()},
			Device:   dev,
		})
		return res.WithinValidityRange, res.Warnings
	}),
	Entry("solar with a zero-size asteroid", func() (bool, []string) {
		sail, err := deflection.GetSail("flat")
		Expect(err).NotTo(HaveOccurred())
		res, err := deflection.Solar(deflection.SolarInput{
			Asteroid:    deflection.Asteroid{Diameter: uncertainty.Exact(0, "m"), Composition: rocky()},
			Method:      deflection.FlatSail,
			Sail:        sail,
			DistanceAU:  1,
			DurationYrs: 5,
		})
		Expect(err).NotTo(HaveOccurred())
		return res.WithinValidityRange, res.Warnings
	}),
	Entry("solar with a NaN albedo change", func() (bool, []string) {
		res, err := deflection.Solar(deflection.SolarInput{
			Asteroid:    deflection.Asteroid{Diameter: uncertainty.Exact(300, "m"), Composition: rocky()},
			Method:      deflection.AlbedoModification,
			AlbedoDelta: uncertainty.Exact(math.NaN(), ""),
			DistanceAU:  1,
			DurationYrs: 5,
		})
		Expect(err).NotTo(HaveOccurred())
		return res.WithinValidityRange, res.Warnings
	}),
)
