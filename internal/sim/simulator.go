package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dpsim/internal/integrators"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
)

const maxWarnings = 64

// Simulator owns the single pendulum state. One tick is one integrator call
// followed by one render call; nothing feeds back from the renderer.
type Simulator struct {
	state      *pendulum.State
	initial    *pendulum.State
	integrator *pendulum.Integrator
	scheme     integrators.Scheme
	renderer   *render.Renderer
	canvas     render.Canvas
	metrics    []Metric
	observers  []Observer

	tick     int
	clamps   int
	skipped  int
	diverged error
}

func New(state *pendulum.State, integrator *pendulum.Integrator) *Simulator {
	return &Simulator{
		state:      state,
		initial:    state.Clone(),
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

// WithScheme replaces the built-in semi-implicit step with scheme.
func (s *Simulator) WithScheme(scheme integrators.Scheme) *Simulator {
	s.scheme = scheme
	return s
}

// AttachRenderer makes Tick draw every frame onto c.
func (s *Simulator) AttachRenderer(r *render.Renderer, c render.Canvas) {
	s.renderer = r
	s.canvas = c
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Snapshot() pendulum.Snapshot { return s.state.Snapshot() }
func (s *Simulator) TickCount() int { return s.tick }
func (s *Simulator) Clamps() int { return s.clamps }
func (s *Simulator) SkippedFrames() int { return s.skipped }
func (s *Simulator) Gravity() float64 { return s.integrator.Gravity }
func (s *Simulator) Diverged() error { return s.diverged }

func (s *Simulator) Energy() float64 {
	return pendulum.Energy(s.state.Snapshot(), s.integrator.Gravity)
}

// Advance runs the integrator once and notifies metrics and observers. Once
// the state has gone non-finite it stays frozen and every call returns the
// same *TickError.
func (s *Simulator) Advance() (clamped bool, err error) {
	if s.diverged != nil {
		return false, s.diverged
	}

	if s.scheme != nil {
		clamped = s.integrator.Advance(s.state, s.scheme)
	} else {
		clamped = s.integrator.Step(s.state)
	}
	s.tick++
	if clamped {
		s.clamps++
	}

	if !s.state.IsFinite() {
		s.diverged = &TickError{Tick: s.tick, Err: ErrNonFiniteState}
		return clamped, s.diverged
	}

	snap := s.state.Snapshot()
	for _, m := range s.metrics {
		m.Observe(s.tick, snap)
	}
	for _, obs := range s.observers {
		obs.OnTick(s.tick, snap)
	}
	return clamped, nil
}

// Render draws the current state onto c. A non-finite frame is counted and
// skipped.
func (s *Simulator) Render(r *render.Renderer, c render.Canvas) error {
	err := r.Render(s.state.Snapshot(), c)
	if errors.Is(err, render.ErrNonFiniteFrame) {
		s.skipped++
	}
	return err
}

// Tick advances once and renders to the attached canvas, if any.
func (s *Simulator) Tick() (clamped bool, err error) {
	clamped, err = s.Advance()
	if s.renderer != nil && s.canvas != nil {
		if rerr := s.Render(s.renderer, s.canvas); rerr != nil && !errors.Is(rerr, render.ErrNonFiniteFrame) {
			return clamped, rerr
		}
	}
	return clamped, err
}

// Reset restores the initial state and clears counters and metrics.
func (s *Simulator) Reset() {
	s.state = s.initial.Clone()
	s.tick = 0
	s.clamps = 0
	s.skipped = 0
	s.diverged = nil
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Run ticks cfg.Ticks times or until ctx is done or the state diverges.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := 0
	if cfg.SampleEvery > 0 {
		capacity = cfg.Ticks/cfg.SampleEvery + 1
	}
	result := &Result{
		Ticks:    make([]int, 0, capacity),
		States:   make([]pendulum.Snapshot, 0, capacity),
		Energies: make([]float64, 0, capacity),
		Metrics:  make(map[string]float64),
		Warnings: make([]error, 0),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.Energy()
	if cfg.SampleEvery > 0 {
		s.sample(result)
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		clamped, err := s.Tick()
		if clamped {
			result.Clamps++
			if len(result.Warnings) < maxWarnings {
				result.Warnings = append(result.Warnings, &TickError{Tick: s.tick, Err: pendulum.ErrSingularConfiguration})
			}
		}
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		result.TicksTaken++
		if cfg.SampleEvery > 0 && s.tick%cfg.SampleEvery == 0 {
			s.sample(result)
		}
	}

	s.finish(result, initialEnergy)
	return result, nil
}

func (s *Simulator) sample(result *Result) {
	snap := s.state.Snapshot()
	result.Ticks = append(result.Ticks, s.tick)
	result.States = append(result.States, snap)
	result.Energies = append(result.Energies, pendulum.Energy(snap, s.integrator.Gravity))
}

func (s *Simulator) finish(result *Result, initialEnergy float64) {
	if initialEnergy != 0 && s.diverged == nil {
		maxDrift := math.Abs(s.Energy()-initialEnergy) / math.Abs(initialEnergy)
		for _, e := range result.Energies {
			maxDrift = math.Max(maxDrift, math.Abs(e-initialEnergy)/math.Abs(initialEnergy))
		}
		result.EnergyDrift = maxDrift
	}
	result.SkippedFrames = s.skipped
	result.Metrics["clamps"] = float64(result.Clamps)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}
