package pendulum

import (
	"math"

	"github.com/san-kum/dpsim/internal/integrators"
)

const (
	DefaultGravity          = 1.0
	DefaultDamping          = 0.0001
	DefaultDt               = 1.0
	DefaultDenominatorFloor = 1e-9
)

// Integrator advances a State by one fixed tick using the closed-form
// equations of motion of a point-mass double pendulum.
//
// Damping is only applied when ApplyDamping is set; the zero-damping default
// is the undamped ideal pendulum.
type Integrator struct {
	Gravity          float64
	Damping          float64
	ApplyDamping     bool
	// Dt is the time per tick. Non-positive values step with DefaultDt;
	// see StepSize.
	Dt               float64
	DenominatorFloor float64
}

func NewIntegrator() *Integrator {
	return &Integrator{
		Gravity:          DefaultGravity,
		Damping:          DefaultDamping,
		Dt:               DefaultDt,
		DenominatorFloor: DefaultDenominatorFloor,
	}
}

// Accelerations returns the angular accelerations of both rods. clamped is
// true when either denominator was raised to the floor.
func (in *Integrator) Accelerations(s *State) (alpha1, alpha2 float64, clamped bool) {
	return in.accelerations(s.angle1, s.angle2, s.velocity1, s.velocity2, s.mass1, s.mass2, s.length1, s.length2)
}

func (in *Integrator) accelerations(a1, a2, v1, v2, m1, m2, l1, l2 float64) (float64, float64, bool) {
	g := in.Gravity
	sinD, cosD := math.Sincos(a1 - a2)
	common := 2*m1 + m2 - m2*math.Cos(2*a1-2*a2)

	num1 := -g*(2*m1+m2)*math.Sin(a1) -
		m2*g*math.Sin(a1-2*a2) -
		2*sinD*m2*(v2*v2*l2+v1*v1*l1*cosD)
	den1, c1 := in.floor(l1 * common)

	num2 := 2 * sinD * (v1*v1*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(a1) +
		v2*v2*l2*m2*cosD)
	den2, c2 := in.floor(l2 * common)

	return num1 / den1, num2 / den2, c1 || c2
}

// floor keeps |den| >= DenominatorFloor, preserving its sign.
func (in *Integrator) floor(den float64) (float64, bool) {
	eps := in.DenominatorFloor
	if eps <= 0 || math.Abs(den) >= eps {
		return den, false
	}
	if den < 0 {
		return -eps, true
	}
	return eps, true
}

// Step advances s by one tick: velocities from the current accelerations
// first, then angles from the updated velocities. It reports whether a
// denominator was clamped.
func (in *Integrator) Step(s *State) bool {
	alpha1, alpha2, clamped := in.Accelerations(s)
	dt := in.StepSize()

	s.velocity1 += dt * alpha1
	s.velocity2 += dt * alpha2
	if in.ApplyDamping {
		s.velocity1 *= 1 - in.Damping
		s.velocity2 *= 1 - in.Damping
	}
	s.angle1 += dt * s.velocity1
	s.angle2 += dt * s.velocity2

	return clamped
}

// Advance steps s with an alternative fixed-step scheme over the vector
// form [angle1, angle2, velocity1, velocity2]. Damping is applied to the
// resulting velocities when enabled.
func (in *Integrator) Advance(s *State, scheme integrators.Scheme) bool {
	sys := in.NewSystem(s)
	x := scheme.Step(sys, s.Vector(), in.StepSize())
	if len(x) < 4 {
		return sys.clamped
	}
	s.angle1, s.angle2, s.velocity1, s.velocity2 = x[0], x[1], x[2], x[3]
	if in.ApplyDamping {
		s.velocity1 *= 1 - in.Damping
		s.velocity2 *= 1 - in.Damping
	}
	return sys.clamped
}

// System exposes the equations of motion as dx/dt = f(x) for a fixed set of
// masses and lengths.
type System struct {
	in      *Integrator
	masses  [4]float64
	clamped bool
}

// NewSystem binds the integrator's constants to the masses and lengths of s.
func (in *Integrator) NewSystem(s *State) *System {
	return &System{in: in, masses: [4]float64{s.mass1, s.mass2, s.length1, s.length2}}
}

func (sys *System) Derive(x []float64) []float64 {
	m1, m2, l1, l2 := sys.masses[0], sys.masses[1], sys.masses[2], sys.masses[3]
	alpha1, alpha2, clamped := sys.in.accelerations(x[0], x[1], x[2], x[3], m1, m2, l1, l2)
	sys.clamped = sys.clamped || clamped
	return []float64{x[2], x[3], alpha1, alpha2}
}

// Clamped reports whether any Derive call hit the denominator floor.
func (sys *System) Clamped() bool { return sys.clamped }

// StepSize returns the time per tick actually used by Step and Advance.
func (in *Integrator) StepSize() float64 {
	if in.Dt <= 0 {
		return DefaultDt
	}
	return in.Dt
}
