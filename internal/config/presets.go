package config

import "sort"

// OrbitPreset holds heliocentric ecliptic elements; angles in degrees,
// sigmas zero when unpublished.
type OrbitPreset struct {
	A       float64 `yaml:"a"`
	E       float64 `yaml:"e"`
	I       float64 `yaml:"i"`
	RAAN    float64 `yaml:"raan"`
	ArgPeri float64 `yaml:"arg_peri"`
	M       float64 `yaml:"m"`
	EpochJD float64 `yaml:"epoch_jd"`
	SigmaA  float64 `yaml:"sigma_a,omitempty"`
	SigmaE  float64 `yaml:"sigma_e,omitempty"`
	SigmaI  float64 `yaml:"sigma_i,omitempty"`
}

type Preset struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	DiameterM   float64 `yaml:"diameter_m"`
	DiameterSig float64 `yaml:"diameter_sigma,omitempty"`
	// MassKg overrides the mass derived from diameter and composition.
	MassKg         float64      `yaml:"mass_kg,omitempty"`
	Composition    string       `yaml:"composition"`
	VelocityKmS    float64      `yaml:"velocity_km_s"`
	VelocitySig    float64      `yaml:"velocity_sigma,omitempty"`
	ImpactAngleDeg float64      `yaml:"impact_angle_deg"`
	ImpactAngleSig float64      `yaml:"impact_angle_sigma,omitempty"`
	Target         string       `yaml:"target"`
	Atmosphere     string       `yaml:"atmosphere"`
	AbsMagnitude   float64      `yaml:"abs_magnitude,omitempty"`
	Orbit          *OrbitPreset `yaml:"orbit,omitempty"`
}

const presetEpoch = 2460200.5

var Presets = map[string]*Preset{
	"apophis": {
		Name: "99942 Apophis", Description: "Aten-class PHA with a 2029 Earth flyby",
		DiameterM: 340, DiameterSig: 40, Composition: "rocky",
		VelocityKmS: 12.6, VelocitySig: 0.5, ImpactAngleDeg: 45,
		Target: "sedimentaryRock", Atmosphere: "seaLevel", AbsMagnitude: 19.09,
		Orbit: &OrbitPreset{
			A: 0.9224, E: 0.1911, I: 3.339, RAAN: 203.96, ArgPeri: 126.60, M: 300.0,
			EpochJD: presetEpoch, SigmaA: 1e-8, SigmaE: 1e-8, SigmaI: 1e-6,
		},
	},
	"bennu": {
		Name: "101955 Bennu", Description: "carbonaceous rubble pile visited by OSIRIS-REx",
		DiameterM: 490, DiameterSig: 10, MassKg: 7.33e10, Composition: "carbonaceous",
		VelocityKmS: 12.7, VelocitySig: 0.3, ImpactAngleDeg: 45,
		Target: "sedimentaryRock", Atmosphere: "seaLevel", AbsMagnitude: 20.21,
		Orbit: &OrbitPreset{
			A: 1.1264, E: 0.2037, I: 6.035, RAAN: 2.06, ArgPeri: 66.22, M: 101.7,
			EpochJD: presetEpoch, SigmaA: 1e-9, SigmaE: 1e-8, SigmaI: 1e-6,
		},
	},
	"didymos": {
		Name: "65803 Didymos", Description: "binary system, target of the DART kinetic impact on Dimorphos",
		DiameterM: 160, DiameterSig: 4, MassKg: 4.3e9, Composition: "rocky",
		VelocityKmS: 6.14, ImpactAngleDeg: 45,
		Target: "sedimentaryRock", Atmosphere: "seaLevel", AbsMagnitude: 18.07,
		Orbit: &OrbitPreset{
			A: 1.6427, E: 0.3839, I: 3.408, RAAN: 72.99, ArgPeri: 319.6, M: 140.0,
			EpochJD: presetEpoch, SigmaA: 1e-8, SigmaE: 1e-7, SigmaI: 1e-5,
		},
	},
	"barringer": {
		Name: "Barringer impactor", Description: "iron meteorite that formed Meteor Crater, Arizona",
		DiameterM: 50, DiameterSig: 10, Composition: "metallic",
		VelocityKmS: 12.8, VelocitySig: 2, ImpactAngleDeg: 45,
		Target: "sedimentaryRock", Atmosphere: "seaLevel",
	},
	"chelyabinsk": {
		Name: "Chelyabinsk meteor", Description: "2013 superbolide airburst over the southern Urals",
		DiameterM: 19, DiameterSig: 1, Composition: "rocky",
		VelocityKmS: 19.16, VelocitySig: 0.15, ImpactAngleDeg: 18,
		Target: "sedimentaryRock", Atmosphere: "arctic",
	},
	"tunguska": {
		Name: "Tunguska event", Description: "1908 airburst over Siberian taiga",
		DiameterM: 60, DiameterSig: 15, Composition: "rocky",
		VelocityKmS: 15, VelocitySig: 3, ImpactAngleDeg: 35,
		Target: "wetSoil", Atmosphere: "arctic",
	},
	"hypothetical2031": {
		Name: "2031 hypothetical", Description: "fictional 250 m Earth-crossing impactor for exercises",
		DiameterM: 250, DiameterSig: 30, Composition: "rocky",
		VelocityKmS: 18, VelocitySig: 1, ImpactAngleDeg: 45,
		Target: "crystallineRock", Atmosphere: "seaLevel", AbsMagnitude: 21.2,
		Orbit: &OrbitPreset{
			A: 1.05, E: 0.12, I: 0.5, RAAN: 100, ArgPeri: 250, M: 10,
			EpochJD: presetEpoch, SigmaA: 1e-6, SigmaE: 1e-6, SigmaI: 1e-4,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	if p.Orbit != nil {
		o := *p.Orbit
		cp.Orbit = &o
	}
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
