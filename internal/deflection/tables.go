// Package deflection models the momentum a mission can impart to an
// asteroid: kinetic impactors, nuclear standoff bursts and solar
// radiation pressure.
package deflection

import (
	"github.com/san-kum/neoshield/internal/impact"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

type Composition struct {
	Name    string            `json:"name" yaml:"name"`
	Density uncertainty.Value `json:"density" yaml:"density"` // kg/m³
	// Beta is the momentum enhancement factor of a kinetic impact.
	Beta uncertainty.Value `json:"beta" yaml:"beta"`
	// VaporizationEnergy in J/kg.
	VaporizationEnergy uncertainty.Value `json:"vaporization_energy" yaml:"vaporization_energy"`
	XRayCoupling       uncertainty.Value `json:"xray_coupling" yaml:"xray_coupling"`
	NeutronCoupling    uncertainty.Value `json:"neutron_coupling" yaml:"neutron_coupling"`
	Strength           uncertainty.Value `json:"strength" yaml:"strength"` // Pa
	// DisruptionThreshold is Q*, the specific energy (J/kg) that shatters
	// and disperses half the body.
	DisruptionThreshold float64 `json:"disruption_threshold" yaml:"disruption_threshold"`
}

type NuclearDevice struct {
	Name  string            `json:"name" yaml:"name"`
	Yield uncertainty.Value `json:"yield" yaml:"yield"` // kt
	// Energy fractions released as X-rays, neutrons and debris.
	XRayFraction    float64 `json:"xray_fraction" yaml:"xray_fraction"`
	NeutronFraction float64 `json:"neutron_fraction" yaml:"neutron_fraction"`
	DebrisFraction  float64 `json:"debris_fraction" yaml:"debris_fraction"`
	Mass            float64 `json:"mass" yaml:"mass"` // kg
}

type SolarSail struct {
	Name         string            `json:"name" yaml:"name"`
	Area         uncertainty.Value `json:"area" yaml:"area"` // m²
	Reflectivity uncertainty.Value `json:"reflectivity" yaml:"reflectivity"`
	// Efficiency accounts for billowing, wrinkles and structure.
	Efficiency    float64 `json:"efficiency" yaml:"efficiency"`
	Mass          float64 `json:"mass" yaml:"mass"` // kg
	LifetimeYears float64 `json:"lifetime_years" yaml:"lifetime_years"`
}

func v(x, s float64, unit string) uncertainty.Value { return uncertainty.New(x, s, unit) }

var Compositions = map[string]Composition{
	"rocky": {
		Name: "rocky (S-type)", Density: v(2600, 300, "kg/m3"), Beta: v(3, 1, ""),
		VaporizationEnergy: v(1.6e7, 3e6, "J/kg"), XRayCoupling: v(0.1, 0.05, ""),
		NeutronCoupling: v(0.05, 0.02, ""), Strength: v(1e7, 5e6, "Pa"), DisruptionThreshold: 1e3,
	},
	"metallic": {
		Name: "metallic (M-type)", Density: v(7800, 200, "kg/m3"), Beta: v(1.5, 0.5, ""),
		VaporizationEnergy: v(6.3e6, 1e6, "J/kg"), XRayCoupling: v(0.15, 0.05, ""),
		NeutronCoupling: v(0.08, 0.03, ""), Strength: v(1e8, 5e7, "Pa"), DisruptionThreshold: 5e3,
	},
	"carbonaceous": {
		Name: "carbonaceous (C-type)", Density: v(1400, 300, "kg/m3"), Beta: v(4, 1.5, ""),
		VaporizationEnergy: v(1.2e7, 3e6, "J/kg"), XRayCoupling: v(0.08, 0.04, ""),
		NeutronCoupling: v(0.04, 0.02, ""), Strength: v(1e6, 5e5, "Pa"), DisruptionThreshold: 5e2,
	},
}

var Devices = map[string]NuclearDevice{
	"lowYield":        {"low yield", v(100, 10, "kt"), 0.70, 0.05, 0.20, 300},
	"mediumYield":     {"medium yield", v(1000, 100, "kt"), 0.70, 0.05, 0.20, 1000},
	"highYield":       {"high yield", v(10000, 1000, "kt"), 0.70, 0.05, 0.20, 3000},
	"enhancedNeutron": {"enhanced neutron", v(1000, 100, "kt"), 0.30, 0.50, 0.15, 1000},
}

var Sails = map[string]SolarSail{
	"flat":      {"flat sail", v(1e4, 500, "m2"), v(0.9, 0.05, ""), 0.85, 100, 10},
	"parabolic": {"parabolic concentrator", v(1e4, 500, "m2"), v(0.85, 0.05, ""), 0.90, 250, 8},
	"heliogyro": {"heliogyro", v(4e4, 2e3, "m2"), v(0.9, 0.05, ""), 0.80, 400, 15},
}

func GetComposition(key string) (Composition, error) {
	c, ok := Compositions[key]
	if !ok {
		return Composition{}, &impact.UnknownKeyError{Kind: "composition", Key: key}
	}
	return c, nil
}

func GetDevice(key string) (NuclearDevice, error) {
	d, ok := Devices[key]
	if !ok {
		return NuclearDevice{}, &impact.UnknownKeyError{Kind: "nuclear device", Key: key}
	}
	return d, nil
}

func GetSail(key string) (SolarSail, error) {
	s, ok := Sails[key]
	if !ok {
		return SolarSail{}, &impact.UnknownKeyError{Kind: "solar sail", Key: key}
	}
	return s, nil
}
