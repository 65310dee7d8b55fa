package pendulum

import "math"

// Vec is a point in the physics frame: origin at the pivot, x to the right,
// y measured along the downward vertical.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(w Vec) Vec { return Vec{v.X + w.X, v.Y + w.Y} }

func (v Vec) IsFinite() bool { return finite(v.X) && finite(v.Y) }

// Endpoints returns the positions of mass 1 and mass 2 relative to the pivot.
func Endpoints(s Snapshot) (p1, p2 Vec) {
	sin1, cos1 := math.Sincos(s.Angle1)
	sin2, cos2 := math.Sincos(s.Angle2)
	p1 = Vec{X: sin1 * s.Length1, Y: cos1 * s.Length1}
	p2 = p1.Add(Vec{X: sin2 * s.Length2, Y: cos2 * s.Length2})
	return p1, p2
}
