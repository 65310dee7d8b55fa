package pendulum

import "math"

// Energy returns the total mechanical energy of s under gravity g, with
// potential energy measured from the resting configuration (both rods
// hanging straight down), so a pendulum at rest at angle 0 has zero energy.
func Energy(s Snapshot, g float64) float64 {
	m1, m2, l1, l2 := s.Mass1, s.Mass2, s.Length1, s.Length2
	v1, v2 := s.Velocity1, s.Velocity2

	v1sq := l1 * l1 * v1 * v1
	v2sq := v1sq + l2*l2*v2*v2 + 2*l1*l2*v1*v2*math.Cos(s.Angle1-s.Angle2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	h1 := l1 * (1 - math.Cos(s.Angle1))
	h2 := h1 + l2*(1-math.Cos(s.Angle2))
	pe := m1*g*h1 + m2*g*h2

	return ke + pe
}
