package integrators

// Verlet is velocity Verlet. The second acceleration is evaluated with the
// old velocities, which is exact only when acceleration does not depend on
// velocity.
type Verlet struct {
	scratch []float64
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys System, x []float64, dt float64) []float64 {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make([]float64, n)
	}

	result := make([]float64, n)
	dx := sys.Derive(x)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := sys.Derive(v.scratch)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}

	return result
}
