package metrics

import (
	"math"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// PeakSpeed tracks the largest angular speed of either rod.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string {
	return p.name
}

func (p *PeakSpeed) Observe(tick int, s pendulum.Snapshot) {
	p.peak = math.Max(p.peak, math.Max(math.Abs(s.Velocity1), math.Abs(s.Velocity2)))
}

func (p *PeakSpeed) Value() float64 {
	return p.peak
}

func (p *PeakSpeed) Reset() {
	p.peak = 0
}

// Flips counts how often the outer rod passes over the top, i.e. how many
// times angle2 crosses an odd multiple of pi.
type Flips struct {
	name   string
	count  int
	last   float64
	primed bool
}

func NewFlips() *Flips {
	return &Flips{name: "flips"}
}

func (f *Flips) Name() string {
	return f.name
}

func (f *Flips) Observe(tick int, s pendulum.Snapshot) {
	turn := math.Floor((s.Angle2 + math.Pi) / (2 * math.Pi))
	if f.primed && turn != f.last {
		f.count += int(math.Abs(turn - f.last))
	}
	f.last = turn
	f.primed = true
}

func (f *Flips) Value() float64 {
	return float64(f.count)
}

func (f *Flips) Reset() {
	f.count = 0
	f.last = 0
	f.primed = false
}
