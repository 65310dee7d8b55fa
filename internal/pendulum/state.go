package pendulum

import (
	"fmt"
	"math"
)

const (
	ReferenceAngle  = math.Pi / 2
	ReferenceMass   = 40.0
	ReferenceLength = 200.0
)

// Params are the start-up values for a State.
type Params struct {
	Angle1, Angle2   float64
	Mass1, Mass2     float64
	Length1, Length2 float64
}

func ReferenceParams() Params {
	return Params{
		Angle1: ReferenceAngle, Angle2: ReferenceAngle,
		Mass1: ReferenceMass, Mass2: ReferenceMass,
		Length1: ReferenceLength, Length2: ReferenceLength,
	}
}

// Validate reports the first parameter outside its valid range.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"mass1", p.Mass1},
		{"mass2", p.Mass2},
		{"length1", p.Length1},
		{"length2", p.Length2},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidParameter, f.name, f.value)
		}
	}
	if !finite(p.Angle1) {
		return fmt.Errorf("%w: angle1 must be finite, got %g", ErrInvalidParameter, p.Angle1)
	}
	if !finite(p.Angle2) {
		return fmt.Errorf("%w: angle2 must be finite, got %g", ErrInvalidParameter, p.Angle2)
	}
	return nil
}

// State is the physical configuration of the pendulum. Masses and lengths are
// fixed at construction; only an Integrator changes angles and velocities.
type State struct {
	angle1, angle2       float64
	velocity1, velocity2 float64
	mass1, mass2         float64
	length1, length2     float64
}

// New builds a State at rest from p.
func New(p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &State{
		angle1:  p.Angle1,
		angle2:  p.Angle2,
		mass1:   p.Mass1,
		mass2:   p.Mass2,
		length1: p.Length1,
		length2: p.Length2,
	}, nil
}

func (s *State) Angle1() float64    { return s.angle1 }
func (s *State) Angle2() float64    { return s.angle2 }
func (s *State) Velocity1() float64 { return s.velocity1 }
func (s *State) Velocity2() float64 { return s.velocity2 }
func (s *State) Mass1() float64     { return s.mass1 }
func (s *State) Mass2() float64     { return s.mass2 }
func (s *State) Length1() float64   { return s.length1 }
func (s *State) Length2() float64   { return s.length2 }

func (s *State) Clone() *State {
	c := *s
	return &c
}

// IsFinite reports whether every evolving quantity is a finite number.
func (s *State) IsFinite() bool {
	return finite(s.angle1) && finite(s.angle2) && finite(s.velocity1) && finite(s.velocity2)
}

// Snapshot is a read-only copy of a State handed to renderers and observers.
type Snapshot struct {
	Angle1, Angle2       float64
	Velocity1, Velocity2 float64
	Mass1, Mass2         float64
	Length1, Length2     float64
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Angle1: s.angle1, Angle2: s.angle2,
		Velocity1: s.velocity1, Velocity2: s.velocity2,
		Mass1: s.mass1, Mass2: s.mass2,
		Length1: s.length1, Length2: s.length2,
	}
}

// Vector packs the evolving quantities as [angle1, angle2, velocity1, velocity2].
func (s *State) Vector() []float64 {
	return []float64{s.angle1, s.angle2, s.velocity1, s.velocity2}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
