// Package analysis characterizes pendulum runs after the fact.
//
//   - [Lyapunov]: largest Lyapunov exponent from two nearby trajectories
//   - [Sensitivity]: separation growth rate for each perturbed component
//   - [DominantFrequency]: strongest frequency of a sampled signal
//   - [NewPhasePortrait]: one state quantity against another
//   - [NewPoincareSection]: outer rod state each time the inner rod swings
//     through the vertical
//
// # Chaos Detection
//
// A clearly positive exponent means nearby starts separate exponentially:
//
//	lambda, err := analysis.Lyapunov(in, nil, cfg.Params(), 5000, 1e-8)
//	if lambda > 0.01 {
//	    // chaotic start
//	}
//
// Small swings give an exponent near zero.
package analysis
