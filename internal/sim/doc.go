// Package sim drives the pendulum tick by tick.
//
// A [Simulator] owns the only pendulum state. Each tick runs the integrator,
// notifies metrics and observers, then renders through an attached canvas.
// Interactive backends split a tick into [Simulator.Advance] (from their
// update callback) and [Simulator.Render] (from their draw callback); the
// headless [Simulator.Run] loops [Simulator.Tick] and honors context
// cancellation between ticks.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. [RunAll] runs independent
// simulators side by side, each on its own goroutine.
package sim
