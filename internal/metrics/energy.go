package metrics

import (
	"math"

	"github.com/san-kum/neoshield/internal/dynamo"
)

// OrbitalEnergy averages the specific orbital energy v²/2 − μ/r over the
// observed states.
type OrbitalEnergy struct {
	name        string
	mu          float64
	samples     int
	totalEnergy float64
}

func NewOrbitalEnergy(mu float64) *OrbitalEnergy {
	return &OrbitalEnergy{
		name: "orbital_energy",
		mu:   mu,
	}
}

func (e *OrbitalEnergy) Name() string { return e.name }

func (e *OrbitalEnergy) Observe(x dynamo.State, t float64) {
	if len(x) < 6 {
		return
	}
	r := x.Position().Norm()
	if r == 0 {
		return
	}
	v := x.Velocity().Norm()
	e.totalEnergy += 0.5*v*v - e.mu/r
	e.samples++
}

func (e *OrbitalEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *OrbitalEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure of the system energy
// from its first observed value. Systems without an Energy method report 0.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	sys           dynamo.System
}

func NewEnergyDrift(sys dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		sys:  sys,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	h, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
