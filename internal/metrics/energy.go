package metrics

import (
	"math"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Energy reports the mean total energy over the observed ticks.
type Energy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(tick int, s pendulum.Snapshot) {
	e.totalEnergy += pendulum.Energy(s, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative deviation from the energy of the
// first observed tick.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

// NewEnergyDriftFrom measures drift against a known starting energy instead
// of the first observation.
func NewEnergyDriftFrom(gravity float64, start pendulum.Snapshot) *EnergyDrift {
	e := NewEnergyDrift(gravity)
	e.initialEnergy = pendulum.Energy(start, gravity)
	e.samples = 1
	return e
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(tick int, s pendulum.Snapshot) {
	energy := pendulum.Energy(s, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
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
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
