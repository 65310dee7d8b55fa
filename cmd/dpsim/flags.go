package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
	"github.com/san-kum/dpsim/internal/trace"
	"github.com/san-kum/dpsim/internal/viz"
)

// options holds the persistent flags shared by every command.
type options struct {
	configFile string
	preset     string

	// flags is bound to the config flags; only the ones set on the command
	// line are copied into the resolved config.
	flags *config.Config

	traceFormat string
	traceFile   string
	traceEvery  int
	quiet       bool
}

// setters copies one config key from the flag values into the resolved
// config. Keys match the yaml names with dashes.
var setters = map[string]func(dst, src *config.Config){
	"integrator":        func(d, s *config.Config) { d.Integrator = s.Integrator },
	"ticks":             func(d, s *config.Config) { d.Ticks = s.Ticks },
	"width":             func(d, s *config.Config) { d.Width = s.Width },
	"height":            func(d, s *config.Config) { d.Height = s.Height },
	"fps":               func(d, s *config.Config) { d.FPS = s.FPS },
	"pivot-offset":      func(d, s *config.Config) { d.PivotOffset = s.PivotOffset },
	"scale":             func(d, s *config.Config) { d.Scale = s.Scale },
	"gravity":           func(d, s *config.Config) { d.Gravity = s.Gravity },
	"damping":           func(d, s *config.Config) { d.Damping = s.Damping },
	"apply-damping":     func(d, s *config.Config) { d.ApplyDamping = s.ApplyDamping },
	"dt":                func(d, s *config.Config) { d.Dt = s.Dt },
	"denominator-floor": func(d, s *config.Config) { d.DenominatorFloor = s.DenominatorFloor },
	"angle1":            func(d, s *config.Config) { d.Angle1 = s.Angle1 },
	"angle2":            func(d, s *config.Config) { d.Angle2 = s.Angle2 },
	"mass1":             func(d, s *config.Config) { d.Mass1 = s.Mass1 },
	"mass2":             func(d, s *config.Config) { d.Mass2 = s.Mass2 },
	"length1":           func(d, s *config.Config) { d.Length1 = s.Length1 },
	"length2":           func(d, s *config.Config) { d.Length2 = s.Length2 },
}

func (o *options) bind(cmd *cobra.Command) {
	o.flags = config.DefaultConfig()
	d := config.DefaultConfig()
	f := cmd.PersistentFlags()

	f.StringVar(&o.configFile, "config", "", "config file path (yaml)")
	f.StringVar(&o.preset, "preset", "", "start from a preset (see presets)")

	f.StringVar(&o.flags.Integrator, "integrator", d.Integrator, "integration scheme")
	f.IntVar(&o.flags.Ticks, "ticks", d.Ticks, "ticks for headless commands")
	f.IntVar(&o.flags.Width, "width", d.Width, "display width")
	f.IntVar(&o.flags.Height, "height", d.Height, "display height")
	f.IntVar(&o.flags.FPS, "fps", d.FPS, "frame rate for interactive backends")
	f.Float64Var(&o.flags.PivotOffset, "pivot-offset", d.PivotOffset, "pivot distance below the top edge")
	f.Float64Var(&o.flags.Scale, "scale", d.Scale, "display units per physics unit")
	f.Float64Var(&o.flags.Gravity, "gravity", d.Gravity, "gravitational constant")
	f.Float64Var(&o.flags.Damping, "damping", d.Damping, "velocity damping factor")
	f.BoolVar(&o.flags.ApplyDamping, "apply-damping", d.ApplyDamping, "apply damping each tick")
	f.Float64Var(&o.flags.Dt, "dt", d.Dt, "timestep per tick")
	f.Float64Var(&o.flags.DenominatorFloor, "denominator-floor", d.DenominatorFloor, "smallest denominator magnitude")
	f.Float64Var(&o.flags.Angle1, "angle1", d.Angle1, "initial angle of the inner rod")
	f.Float64Var(&o.flags.Angle2, "angle2", d.Angle2, "initial angle of the outer rod")
	f.Float64Var(&o.flags.Mass1, "mass1", d.Mass1, "inner mass")
	f.Float64Var(&o.flags.Mass2, "mass2", d.Mass2, "outer mass")
	f.Float64Var(&o.flags.Length1, "length1", d.Length1, "inner rod length")
	f.Float64Var(&o.flags.Length2, "length2", d.Length2, "outer rod length")

	f.StringVar(&o.traceFormat, "trace", "text", "diagnostic format: text, csv or json")
	f.StringVar(&o.traceFile, "trace-file", "", "write diagnostics to a file instead of stdout")
	f.IntVar(&o.traceEvery, "trace-every", 1, "write diagnostics every n ticks")
	f.BoolVar(&o.quiet, "quiet", false, "disable the per-tick diagnostics")
}

// resolve layers defaults, preset, config file and changed flags, in that
// order, and validates the result.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}

	if o.configFile != "" {
		loaded, err := config.LoadOver(o.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := o.overlay(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay copies the flags set on the command line into cfg and validates
// the result.
func (o *options) overlay(cmd *cobra.Command, cfg *config.Config) error {
	for name, set := range setters {
		if cmd.Flags().Changed(name) {
			set(cfg, o.flags)
		}
	}
	return cfg.Validate()
}

// builder returns a viz.Builder that applies the command line flags over
// the picked preset. The returned close func releases every trace sink
// the builder opened.
func (o *options) builder(cmd *cobra.Command) (viz.Builder, func()) {
	var closers []func() error
	build := func(cfg *config.Config) (*sim.Simulator, error) {
		cfg = cfg.Clone()
		if err := o.overlay(cmd, cfg); err != nil {
			return nil, err
		}
		s, err := buildSim(cfg)
		if err != nil {
			return nil, err
		}
		closeTrace, err := o.attachTrace(s, nil)
		if err != nil {
			return nil, err
		}
		closers = append(closers, closeTrace)
		return s, nil
	}
	return build, func() {
		for _, c := range closers {
			c()
		}
	}
}

// buildSim creates a simulator at rest from cfg.
func buildSim(cfg *config.Config) (*sim.Simulator, error) {
	state, err := pendulum.New(cfg.Params())
	if err != nil {
		return nil, err
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, err
	}

	s := sim.New(state, cfg.NewIntegrator())
	if scheme != nil {
		s.WithScheme(scheme)
	}
	return s, nil
}

// attachTrace adds the diagnostic writer to s. The returned function flushes
// it and closes the trace file, if any. stdout is used only when allowed.
func (o *options) attachTrace(s *sim.Simulator, stdout io.Writer) (func() error, error) {
	noop := func() error { return nil }
	if o.quiet || (o.traceFile == "" && stdout == nil) {
		return noop, nil
	}

	format, err := trace.ParseFormat(o.traceFormat)
	if err != nil {
		return noop, err
	}

	w := stdout
	var file *os.File
	if o.traceFile != "" {
		file, err = os.Create(o.traceFile)
		if err != nil {
			return noop, fmt.Errorf("cannot create trace file: %w", err)
		}
		w = file
	}

	tw := trace.NewWriter(w, format, s.Gravity()).Every(o.traceEvery)
	s.AddObserver(tw)

	return func() error {
		err := tw.Flush()
		if file != nil {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}
