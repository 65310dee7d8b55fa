package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/dpsim/internal/integrators"
	"github.com/san-kum/dpsim/internal/pendulum"
)

// ErrNonFinite is returned when either trajectory stops being finite.
var ErrNonFinite = errors.New("analysis: non-finite trajectory")

// Lyapunov estimates the largest Lyapunov exponent, per unit time, by
// following a start perturbed by perturbation in angle1 alongside the
// unperturbed one and renormalizing their separation every tick.
//
// A nil scheme uses the semi-implicit step. Damping is not applied.
func Lyapunov(in *pendulum.Integrator, scheme integrators.Scheme, p pendulum.Params, ticks int, perturbation float64) (float64, error) {
	return growthRate(in, scheme, p, 0, ticks, perturbation)
}

// Sensitivity returns the separation growth rate for a perturbation of each
// component of [angle1, angle2, velocity1, velocity2] in turn.
func Sensitivity(in *pendulum.Integrator, scheme integrators.Scheme, p pendulum.Params, ticks int, perturbation float64) ([]float64, error) {
	rates := make([]float64, 4)
	for i := range rates {
		rate, err := growthRate(in, scheme, p, i, ticks, perturbation)
		if err != nil {
			return rates[:i], err
		}
		rates[i] = rate
	}
	return rates, nil
}

func growthRate(in *pendulum.Integrator, scheme integrators.Scheme, p pendulum.Params, component, ticks int, d0 float64) (float64, error) {
	if ticks <= 0 || !(d0 > 0) {
		return 0, nil
	}
	state, err := pendulum.New(p)
	if err != nil {
		return 0, err
	}
	if scheme == nil {
		scheme = integrators.NewSemiImplicitEuler()
	}

	sys := in.NewSystem(state)
	x := state.Vector()
	xp := state.Vector()
	xp[component] += d0

	dt := in.StepSize()

	sumLog := 0.0
	for tick := 1; tick <= ticks; tick++ {
		x = scheme.Step(sys, x, dt)
		xp = scheme.Step(sys, xp, dt)

		sep := 0.0
		for i := range x {
			diff := xp[i] - x[i]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, ErrNonFinite
		}
		if sep == 0 {
			// the trajectories merged; restart the separation along the
			// same component
			xp = append(xp[:0], x...)
			xp[component] += d0
			continue
		}

		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	return sumLog / (float64(ticks) * dt), nil
}
