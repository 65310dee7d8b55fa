// Package metrics provides sim.Metric implementations that summarize a run:
// mean energy, relative energy drift, peak angular speed and flip count.
package metrics
