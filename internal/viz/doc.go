// Package viz renders the pendulum in the terminal.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: live view of a running simulation with energy chart
//   - [Canvas]: Braille-based pixel canvas implementing render.Canvas
//   - a preset picker ([RunPicker]) that launches a [Model]
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// The G key records the braille canvas as a GIF animation, saved as
// dpsim.gif in the current directory when recording stops.
package viz
