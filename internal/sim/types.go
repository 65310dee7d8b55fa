package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// ErrNonFiniteState indicates an angle or velocity became NaN or infinite.
var ErrNonFiniteState = errors.New("sim: non-finite state")

// TickError attaches the tick number to an error raised while stepping.
type TickError struct {
	Tick int
	Err  error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

type Metric interface {
	Name() string
	Observe(tick int, s pendulum.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int, s pendulum.Snapshot)
}

type Config struct {
	Ticks int
	// SampleEvery records every n-th state in the result; 0 disables history.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Ticks:       10000,
		SampleEvery: 1,
	}
}

type Result struct {
	Ticks         []int
	States        []pendulum.Snapshot
	Energies      []float64
	Metrics       map[string]float64
	EnergyDrift   float64
	TicksTaken    int
	Clamps        int
	SkippedFrames int
	Warnings      []error
	Errors        []error
}
