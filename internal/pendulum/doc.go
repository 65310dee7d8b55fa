// Package pendulum holds the physical state of a double pendulum and the
// integrator that advances it.
//
//   - [State]: masses, rod lengths, angles and angular velocities
//   - [Integrator]: closed-form Lagrangian accelerations + semi-implicit Euler
//   - [Endpoints]: Cartesian positions of both masses relative to the pivot
//
// Angles are measured from the downward vertical and are never wrapped.
// Velocities are in radians per tick; with the default Dt of 1 the integrator
// adds velocity straight into angle.
//
// # Example
//
//	s, err := pendulum.New(pendulum.ReferenceParams())
//	if err != nil {
//	    return err
//	}
//	in := pendulum.NewIntegrator()
//	for i := 0; i < 100; i++ {
//	    in.Step(s)
//	}
//
// The package has no graphics dependency; renderers read a [Snapshot].
package pendulum
