package integrators

import "fmt"

// System is an autonomous ODE dx/dt = f(x). State vectors are laid out as
// positions followed by velocities, so the first half of x is integrated from
// the second half.
type System interface {
	Derive(x []float64) []float64
}

// Scheme advances x by one fixed step dt.
type Scheme interface {
	Step(sys System, x []float64, dt float64) []float64
}

var schemes = map[string]func() Scheme{
	"semi-implicit": func() Scheme { return NewSemiImplicitEuler() },
	"euler":         func() Scheme { return NewEuler() },
	"rk4":           func() Scheme { return NewRK4() },
	"verlet":        func() Scheme { return NewVerlet() },
}

// ByName returns a fresh scheme for one of Names().
func ByName(name string) (Scheme, error) {
	fn, ok := schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	return []string{"semi-implicit", "euler", "rk4", "verlet"}
}
