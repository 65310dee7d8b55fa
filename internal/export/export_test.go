package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
)

func newSim(t *testing.T) *sim.Simulator {
	t.Helper()
	state, err := pendulum.New(pendulum.ReferenceParams())
	if err != nil {
		t.Fatal(err)
	}
	return sim.New(state, pendulum.NewIntegrator())
}

func TestSVGCanvasFrame(t *testing.T) {
	c := NewSVGCanvas(1440, 720)
	r := render.NewRenderer(render.DefaultViewport())

	s := pendulum.Snapshot{Mass1: 40, Mass2: 40, Length1: 200, Length2: 200}
	if err := r.Render(s, c); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := c.String()
	for _, want := range []string{
		`width="1440" height="720"`,
		`<rect width="100%" height="100%" fill="#000000"/>`,
		`<line x1="720.0" y1="50.0" x2="720.0" y2="250.0" stroke="#4682b4" stroke-width="4.0"`,
		`<circle cx="720.0" cy="450.0" r="20.0" fill="#4682b4"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected svg to contain %q", want)
		}
	}
	if n := strings.Count(out, "<line"); n != 2 {
		t.Errorf("expected 2 lines, got %d", n)
	}

	// a second frame replaces the first
	r.Render(s, c)
	if n := strings.Count(c.String(), "<circle"); n != 2 {
		t.Errorf("expected 2 circles after redraw, got %d", n)
	}
}

func TestSVGCanvasPathUnderPendulum(t *testing.T) {
	c := NewSVGCanvas(100, 100)
	c.Clear(color.Black)
	c.Disk(pendulum.Vec{X: 50, Y: 50}, 10, color.White)
	c.Path([]pendulum.Vec{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}}, 1, color.White, 0.5)

	out := c.String()
	if !strings.Contains(out, `d="M0.0,0.0 L10.0,10.0 L20.0,0.0"`) {
		t.Errorf("unexpected path data in %s", out)
	}
	if strings.Index(out, "<path") > strings.Index(out, "<circle") {
		t.Error("expected trail to be drawn before the pendulum")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]pendulum.Vec{{X: 1, Y: 1}}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}

	points := []pendulum.Vec{{X: 0, Y: 0}, {X: 10, Y: 10}}
	out := TrajectoryToSVG(points, 120, 120, "#4682b4")
	// 10% padding on each side of a 10x10 range
	if !strings.Contains(out, `d="M10.0,10.0 L110.0,110.0"`) {
		t.Errorf("unexpected trajectory path: %s", out)
	}
}

func TestImageCanvas(t *testing.T) {
	c := NewImageCanvas(200, 100)
	c.Clear(render.Black)
	c.Disk(pendulum.Vec{X: 50, Y: 20}, 20, render.SteelBlue)
	c.Line(pendulum.Vec{X: 100, Y: 80}, pendulum.Vec{X: 190, Y: 80}, 4, color.White)

	img := c.Image()
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("expected 200x100 image, got %v", b)
	}

	check := func(x, y int, want color.RGBA) {
		t.Helper()
		r, g, b, _ := img.At(x, y).RGBA()
		got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		if got != want {
			t.Errorf("pixel (%d, %d): expected %v, got %v", x, y, want, got)
		}
	}
	// y is measured from the top, as on screen
	check(50, 20, render.SteelBlue)
	check(150, 80, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	check(5, 95, render.Black)
	check(50, 80, render.Black)

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("expected png signature")
	}
}

func TestWriteRunPlot(t *testing.T) {
	s := newSim(t)
	result, err := s.Run(context.Background(), sim.Config{Ticks: 200, SampleEvery: 5})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteRunPlot(&buf, result, "reference", 4, 3); err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("expected png signature")
	}

	if err := WriteRunPlot(&buf, &sim.Result{}, "empty", 4, 3); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestSaveRunPlot(t *testing.T) {
	s := newSim(t)
	result, err := s.Run(context.Background(), sim.Config{Ticks: 100, SampleEvery: 10})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "plots", "run.png")
	if err := SaveRunPlot(path, result, "reference"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected png signature")
	}

	empty := filepath.Join(t.TempDir(), "empty.png")
	if err := SaveRunPlot(empty, &sim.Result{}, "empty"); err != ErrNoSamples {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if err := os.Remove(empty); err != nil {
		t.Errorf("expected the empty plot file to be closed and removable: %v", err)
	}

	if err := SaveRunPlot(t.TempDir(), result, "dir"); err == nil {
		t.Error("expected error when the path is a directory")
	}
}

func TestWriteFrames(t *testing.T) {
	dir := t.TempDir()
	s := newSim(t)
	r := render.NewRenderer(render.DefaultViewport())

	stats, err := WriteFrames(context.Background(), s, r, 30, FrameOptions{Dir: dir, Every: 10, Trail: 20})
	if err != nil {
		t.Fatalf("frames failed: %v", err)
	}

	if stats.Written != 3 {
		t.Errorf("expected 3 frames, got %d", stats.Written)
	}
	if len(stats.Trajectory) != 30 {
		t.Errorf("expected 30 trajectory points, got %d", len(stats.Trajectory))
	}
	for _, name := range []string{"frame_000010.svg", "frame_000020.svg", "frame_000030.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if !strings.Contains(string(data), "<path") {
			t.Errorf("%s: expected trail path", name)
		}
	}

	if err := SaveTrajectory(dir, stats.Trajectory, 400, 400); err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trajectory.svg")); err != nil {
		t.Error("expected trajectory.svg")
	}
}

func TestWriteFramesPNG(t *testing.T) {
	dir := t.TempDir()
	s := newSim(t)
	r := render.NewRenderer(render.Viewport{Width: 160, Height: 120}.Fit(160, 120, 400))

	stats, err := WriteFrames(context.Background(), s, r, 2, FrameOptions{Dir: dir, Format: "png"})
	if err != nil {
		t.Fatalf("frames failed: %v", err)
	}
	if stats.Written != 2 {
		t.Errorf("expected 2 frames, got %d", stats.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_000002.png")); err != nil {
		t.Error("expected frame_000002.png")
	}

	if _, err := WriteFrames(context.Background(), s, r, 1, FrameOptions{Dir: dir, Format: "gif"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteJSON(t *testing.T) {
	s := newSim(t)
	result, err := s.Run(context.Background(), sim.Config{Ticks: 50, SampleEvery: 50})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, config.DefaultConfig(), result); err != nil {
		t.Fatalf("json failed: %v", err)
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if report.TicksTaken != 50 || report.Config.Mass1 != 40 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Final == nil || *report.Final != result.States[1] {
		t.Errorf("expected final state %+v, got %+v", result.States[1], report.Final)
	}
}
