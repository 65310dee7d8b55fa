package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dpsim/internal/analysis"
	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/export"
	"github.com/san-kum/dpsim/internal/gui"
	"github.com/san-kum/dpsim/internal/integrators"
	"github.com/san-kum/dpsim/internal/metrics"
	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
	"github.com/san-kum/dpsim/internal/viz"
	"github.com/san-kum/dpsim/internal/window"
)

// main runs the dpsim CLI. With no subcommand it opens the pendulum in a
// desktop window. It exits with status 1 if the command returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "dpsim",
		Short:        "double pendulum simulator",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return runWindow(cmd, opts) },
	}
	opts.bind(rootCmd)

	var plotPath, jsonPath string
	var sampleEvery int
	var chart bool
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, opts, runOutputs{plot: plotPath, json: jsonPath, sampleEvery: sampleEvery, chart: chart})
		},
	}
	runCmd.Flags().StringVar(&plotPath, "plot", "", "write angle and energy plots to this png")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write a json report to this file")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 10, "record every n ticks for charts and plots")
	runCmd.Flags().BoolVar(&chart, "chart", true, "print ascii charts of angle2 and energy")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run in a desktop window (ebiten)",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runWindow(cmd, opts) },
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a raylib window with telemetry",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runGUI(cmd, opts) },
	}

	var theme string
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runTUI(cmd, opts, theme) },
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "steel", fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	var frames export.FrameOptions
	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "write frames and the outer-bob trajectory to a directory",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runSVG(cmd, opts, frames) },
	}
	svgCmd.Flags().StringVar(&frames.Dir, "out", "frames", "output directory")
	svgCmd.Flags().IntVar(&frames.Every, "every", 10, "write every n-th frame")
	svgCmd.Flags().StringVar(&frames.Format, "format", "svg", "frame format: svg or png")
	svgCmd.Flags().IntVar(&frames.Trail, "trail", 200, "trail length in ticks (svg only)")

	var xAxis, yAxis string
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "chaos analysis: lyapunov exponent, dominant period, phase portrait",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeRun(cmd, opts, xAxis, yAxis) },
	}
	analyzeCmd.Flags().StringVar(&xAxis, "x-axis", "angle1", "phase portrait x quantity")
	analyzeCmd.Flags().StringVar(&yAxis, "y-axis", "velocity1", "phase portrait y quantity")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same initial state",
		RunE:  func(cmd *cobra.Command, args []string) error { return compareIntegrators(cmd, opts, args) },
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or write configuration",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration as yaml (default dpsim.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "dpsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(runCmd, windowCmd, guiCmd, tuiCmd, svgCmd, analyzeCmd, compareCmd, presetsCmd, configCmd)
	return rootCmd
}

type runOutputs struct {
	plot        string
	json        string
	sampleEvery int
	chart       bool
}

func runHeadless(cmd *cobra.Command, opts *options, outs runOutputs) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := buildSim(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	closeTrace, err := opts.attachTrace(s, out)
	if err != nil {
		return err
	}

	g := s.Gravity()
	s.AddMetric(metrics.NewEnergy(g))
	s.AddMetric(metrics.NewEnergyDriftFrom(g, s.Snapshot()))
	s.AddMetric(metrics.NewPeakSpeed())
	s.AddMetric(metrics.NewFlips())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := s.Run(ctx, sim.Config{Ticks: cfg.Ticks, SampleEvery: outs.sampleEvery})
	elapsed := time.Since(start)

	if err := closeTrace(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	printSummary(out, cfg, result, elapsed)
	if outs.chart {
		printCharts(out, result)
	}

	if outs.plot != "" {
		if err := export.SaveRunPlot(outs.plot, result, fmt.Sprintf("%s, %d ticks", cfg.Integrator, result.TicksTaken)); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		fmt.Fprintf(out, "plot: %s\n", outs.plot)
	}
	if outs.json != "" {
		if err := writeReport(outs.json, cfg, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(out, "report: %s\n", outs.json)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("run stopped: %w", result.Errors[0])
	}
	return nil
}

func printSummary(out io.Writer, cfg *config.Config, result *sim.Result, elapsed time.Duration) {
	fmt.Fprintf(out, "\ncompleted %d/%d ticks in %v (%s, dt=%g)\n", result.TicksTaken, cfg.Ticks, elapsed, cfg.Integrator, cfg.Dt)
	if n := len(result.States); n > 0 {
		final := result.States[n-1]
		fmt.Fprintf(out, "final: angle1=%.6f angle2=%.6f velocity1=%.6f velocity2=%.6f\n",
			final.Angle1, final.Angle2, final.Velocity1, final.Velocity2)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	fmt.Fprintf(w, "max_drift\t%.6e\n", result.EnergyDrift)
	for _, name := range []string{"energy", "energy_drift", "peak_speed", "flips", "clamps"} {
		if v, ok := result.Metrics[name]; ok {
			fmt.Fprintf(w, "%s\t%.6f\n", name, v)
		}
	}
	fmt.Fprintf(w, "skipped_frames\t%d\n", result.SkippedFrames)
	w.Flush()

	for _, warn := range result.Warnings {
		fmt.Fprintf(out, "warning: %v\n", warn)
	}
	if result.Clamps > len(result.Warnings) {
		fmt.Fprintf(out, "warning: %d more clamped ticks\n", result.Clamps-len(result.Warnings))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %v\n", e)
	}
}

func printCharts(out io.Writer, result *sim.Result) {
	if len(result.States) < 2 {
		return
	}
	angle2 := make([]float64, len(result.States))
	for i, s := range result.States {
		angle2[i] = s.Angle2
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(angle2,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("angle2 (rad)"),
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(result.Energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("energy"),
	))
}

func writeReport(path string, cfg *config.Config, result *sim.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(f, cfg, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runWindow(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := buildSim(cfg)
	if err != nil {
		return err
	}
	closeTrace, err := opts.attachTrace(s, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	runErr := window.Run(window.NewGame(s, cfg.Viewport()), title(opts), cfg.FPS)
	if err := closeTrace(); err != nil && runErr == nil {
		runErr = fmt.Errorf("trace: %w", err)
	}
	return runErr
}

func runGUI(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := buildSim(cfg)
	if err != nil {
		return err
	}
	closeTrace, err := opts.attachTrace(s, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	gui.Run(gui.NewApp(s, cfg.Viewport(), title(opts)), cfg.FPS)
	if err := closeTrace(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// runTUI shows the preset picker unless a preset or config file was given.
// The terminal is owned by the program, so diagnostics only go to
// --trace-file.
func runTUI(cmd *cobra.Command, opts *options, theme string) error {
	build, closeAll := opts.builder(cmd)
	defer closeAll()

	if opts.preset == "" && opts.configFile == "" {
		fps := opts.flags.FPS
		if fps <= 0 {
			fps = config.DefaultFPS
		}
		return viz.RunPicker(build, fps, theme)
	}

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(s, title(opts), cfg.FPS).WithTheme(theme))
}

func runSVG(cmd *cobra.Command, opts *options, frames export.FrameOptions) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := buildSim(cfg)
	if err != nil {
		return err
	}
	closeTrace, err := opts.attachTrace(s, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	vp := cfg.Viewport()
	r := render.NewRenderer(vp)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := export.WriteFrames(ctx, s, r, cfg.Ticks, frames)
	if cerr := closeTrace(); cerr != nil && err == nil {
		err = fmt.Errorf("trace: %w", cerr)
	}
	if err != nil {
		return err
	}

	if err := export.SaveTrajectory(frames.Dir, stats.Trajectory, vp.Width, vp.Height); err != nil {
		return fmt.Errorf("failed to write trajectory: %w", err)
	}

	fmt.Fprintf(out, "wrote %d frames to %s (%d skipped)\n", stats.Written, frames.Dir, stats.Skipped)
	fmt.Fprintf(out, "trajectory: %s\n", filepath.Join(frames.Dir, "trajectory.svg"))
	if stats.Err != nil {
		return fmt.Errorf("stopped early: %w", stats.Err)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, opts *options, xAxis, yAxis string) error {
	xq, err := analysis.ParseQuantity(xAxis)
	if err != nil {
		return err
	}
	yq, err := analysis.ParseQuantity(yAxis)
	if err != nil {
		return err
	}

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	s, err := buildSim(cfg)
	if err != nil {
		return err
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analyzing %d ticks (%s, dt=%g)\n\n", cfg.Ticks, cfg.Integrator, cfg.Dt)

	result, err := s.Run(context.Background(), sim.Config{Ticks: cfg.Ticks, SampleEvery: 1})
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "warning: %v, analyzing %d ticks\n", result.Errors[0], result.TicksTaken)
	}

	lambda, err := analysis.Lyapunov(cfg.NewIntegrator(), scheme, cfg.Params(), result.TicksTaken, 1e-8)
	if err != nil {
		fmt.Fprintf(out, "lyapunov exponent: %v\n", err)
	} else {
		verdict := "regular"
		if lambda > 1e-3 {
			verdict = "chaotic"
		}
		fmt.Fprintf(out, "lyapunov exponent: %.6f per unit time (%s)\n", lambda, verdict)
	}

	rates, err := analysis.Sensitivity(cfg.NewIntegrator(), scheme, cfg.Params(), result.TicksTaken, 1e-8)
	if err != nil {
		fmt.Fprintf(out, "sensitivity: %v\n", err)
	} else {
		fmt.Fprint(out, "sensitivity:")
		for i, rate := range rates {
			fmt.Fprintf(out, " %s %.6f", analysis.Quantity(i), rate)
		}
		fmt.Fprintln(out)
	}

	// tick 0 is at rest and carries no signal of its own
	states := result.States[1:]
	a1 := make([]float64, len(states))
	a2 := make([]float64, len(states))
	for i, st := range states {
		a1[i] = st.Angle1
		a2[i] = st.Angle2
	}
	for _, sig := range []struct {
		name string
		data []float64
	}{{"angle1", a1}, {"angle2", a2}} {
		freq := analysis.DominantFrequency(sig.data, cfg.Dt)
		if freq > 0 {
			fmt.Fprintf(out, "%s dominant frequency: %.6f, period: %.2f\n", sig.name, freq, 1/freq)
		}
	}

	portrait := analysis.NewPhasePortrait(states, xq, yq)
	fmt.Fprintf(out, "\nphase portrait: %s vs %s\n", yq, xq)
	fmt.Fprint(out, portrait.ASCII(72, 20))

	section := analysis.NewPoincareSection(states)
	fmt.Fprintf(out, "\npoincare section: velocity2 vs angle2 at angle1 = 0 (%d crossings)\n", len(section.Points))
	if art := section.ASCII(72, 20); art != "" {
		fmt.Fprint(out, art)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, opts *options, names []string) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = integrators.Names()
	}

	sims := make([]*sim.Simulator, 0, len(names))
	for _, name := range names {
		c := cfg.Clone()
		c.Integrator = name
		if err := c.Validate(); err != nil {
			return err
		}
		s, err := buildSim(c)
		if err != nil {
			return err
		}
		sims = append(sims, s)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (dt=%g, ticks=%d)\n\n", cfg.Dt, cfg.Ticks)

	start := time.Now()
	results, err := sim.RunAll(context.Background(), sims, sim.Config{Ticks: cfg.Ticks, SampleEvery: cfg.Ticks})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "%-14s  %12s  %12s  %12s  %8s  %s\n", "integrator", "angle1", "angle2", "energy_drift", "clamps", "status")
	fmt.Fprintln(out, strings.Repeat("-", 74))

	for i, name := range names {
		result := results[i]
		status := "ok"
		if len(result.Errors) > 0 {
			status = result.Errors[0].Error()
		}
		final := sims[i].Snapshot()
		fmt.Fprintf(out, "%-14s  %12.6f  %12.6f  %12.2e  %8d  %s\n",
			name, final.Angle1, final.Angle2, result.EnergyDrift, result.Clamps, status)
	}

	fmt.Fprintf(out, "\ntotal time: %.2f ms\n", float64(elapsed.Microseconds())/1000)
	return nil
}

func title(opts *options) string {
	if opts.preset != "" {
		return "dpsim: " + opts.preset
	}
	return "dpsim"
}
