// Package impact estimates the consequences of an asteroid striking the
// Earth: cratering, airblast, thermal radiation and ground shaking.
package impact

import (
	"fmt"
	"sort"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

// UnknownKeyError reports a lookup in one of the reference tables that
// found nothing.
type UnknownKeyError struct {
	Kind string
	Key  string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("Unknown %s: %s", e.Kind, e.Key)
}

type TargetMaterial struct {
	Name     string            `json:"name" yaml:"name"`
	Density  uncertainty.Value `json:"density" yaml:"density"`   // kg/m³
	Strength uncertainty.Value `json:"strength" yaml:"strength"` // Pa
	// Coupling is the crater scaling constant K1.
	Coupling uncertainty.Value `json:"coupling" yaml:"coupling"`
	// SimpleToComplex is the final diameter (m) above which craters
	// collapse into complex form.
	SimpleToComplex float64 `json:"simple_to_complex" yaml:"simple_to_complex"`
}

type Impactor struct {
	Name     string            `json:"name" yaml:"name"`
	Density  uncertainty.Value `json:"density" yaml:"density"`   // kg/m³
	Strength uncertainty.Value `json:"strength" yaml:"strength"` // Pa, bulk breakup strength
}

type Atmosphere struct {
	Name        string  `json:"name" yaml:"name"`
	Pressure    float64 `json:"pressure" yaml:"pressure"` // Pa
	Density     float64 `json:"density" yaml:"density"`   // kg/m³
	ScaleHeight float64 `json:"scale_height" yaml:"scale_height"`
	Humidity    float64 `json:"humidity" yaml:"humidity"` // 0..1
}

const (
	StandardPressure = 101325.0
	StandardDensity  = 1.225
	StandardGravity  = 9.81
)

func v(x, s float64, unit string) uncertainty.Value { return uncertainty.New(x, s, unit) }

var TargetMaterials = map[string]TargetMaterial{
	"sedimentaryRock": {"sedimentary rock", v(2500, 100, "kg/m3"), v(1e7, 3e6, "Pa"), v(1.0, 0.1, ""), 2250},
	"crystallineRock": {"crystalline rock", v(2750, 100, "kg/m3"), v(2e7, 5e6, "Pa"), v(0.9, 0.1, ""), 4000},
	"wetSoil":         {"wet soil", v(1900, 150, "kg/m3"), v(1e5, 5e4, "Pa"), v(1.2, 0.15, ""), 2000},
	"drySoil":         {"dry soil", v(1600, 150, "kg/m3"), v(3e5, 1e5, "Pa"), v(1.1, 0.15, ""), 2000},
	"ice":             {"ice", v(920, 10, "kg/m3"), v(1e6, 5e5, "Pa"), v(1.0, 0.1, ""), 1500},
	"water":           {"water", v(1000, 0, "kg/m3"), v(0, 0, "Pa"), v(1.0, 0.2, ""), 1000},
}

var Impactors = map[string]Impactor{
	"rocky":        {"rocky (S-type)", v(3000, 300, "kg/m3"), v(1e7, 5e6, "Pa")},
	"metallic":     {"metallic (M-type)", v(7800, 200, "kg/m3"), v(1e8, 5e7, "Pa")},
	"carbonaceous": {"carbonaceous (C-type)", v(2000, 300, "kg/m3"), v(1e6, 5e5, "Pa")},
	"icy":          {"icy (cometary)", v(1000, 100, "kg/m3"), v(1e5, 5e4, "Pa")},
}

var Atmospheres = map[string]Atmosphere{
	"seaLevel":     {"sea level", StandardPressure, StandardDensity, 8000, 0.5},
	"highAltitude": {"high altitude (3 km)", 70108, 0.909, 8000, 0.3},
	"tropical":     {"tropical", StandardPressure, 1.17, 8500, 0.8},
	"arctic":       {"arctic", StandardPressure, 1.34, 7500, 0.2},
}

func GetTargetMaterial(key string) (TargetMaterial, error) {
	m, ok := TargetMaterials[key]
	if !ok {
		return TargetMaterial{}, &UnknownKeyError{Kind: "target material", Key: key}
	}
	return m, nil
}

func GetImpactor(key string) (Impactor, error) {
	m, ok := Impactors[key]
	if !ok {
		return Impactor{}, &UnknownKeyError{Kind: "impactor", Key: key}
	}
	return m, nil
}

func GetAtmosphere(key string) (Atmosphere, error) {
	a, ok := Atmospheres[key]
	if !ok {
		return Atmosphere{}, &UnknownKeyError{Kind: "atmosphere", Key: key}
	}
	return a, nil
}

// Keys returns the sorted keys of a reference table.
func Keys[T any](table map[string]T) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
