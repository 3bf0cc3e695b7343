package impact

import (
	"math"

	"github.com/san-kum/neoshield/internal/uncertainty"
	"github.com/san-kum/neoshield/internal/units"
)

// Mass of a spherical body from its diameter (m) and density (kg/m³).
func Mass(diameter, density uncertainty.Value) uncertainty.Value {
	return uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
		d := a.Get("diameter")
		return a.Get("density") * math.Pi * d * d * d / 6
	}, []uncertainty.Input{
		uncertainty.In("diameter", diameter),
		uncertainty.In("density", density),
	}, "kg")
}

// KineticEnergy in joules for a sphere of the given diameter (m), density
// (kg/m³) and velocity (km/s).
func KineticEnergy(diameter, density, velocityKmS uncertainty.Value) uncertainty.Value {
	return uncertainty.MustPropagate(func(a uncertainty.Args) float64 {
		d := a.Get("diameter")
		vel := a.Get("velocity") * 1e3
		m := a.Get("density") * math.Pi * d * d * d / 6
		return 0.5 * m * vel * vel
	}, []uncertainty.Input{
		uncertainty.In("diameter", diameter),
		uncertainty.In("density", density),
		uncertainty.In("velocity", velocityKmS),
	}, "J")
}

// Megatons converts an energy value in joules to megatons of TNT.
func Megatons(energy uncertainty.Value) uncertainty.Value {
	return uncertainty.Scale(energy, 1/units.JoulesPerMegatonTNT).WithUnit("Mt")
}
