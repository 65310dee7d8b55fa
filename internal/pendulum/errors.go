package pendulum

import "errors"

var (
	// ErrInvalidParameter indicates a non-positive or non-finite mass or length.
	ErrInvalidParameter = errors.New("pendulum: invalid parameter")

	// ErrSingularConfiguration indicates an equation-of-motion denominator
	// fell below the integrator's floor and was clamped.
	ErrSingularConfiguration = errors.New("pendulum: singular configuration (denominator clamped)")
)
