package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
)

type FrameOptions struct {
	Dir    string
	Every  int
	Format string // "svg" or "png"
	// Trail is the number of past outer-bob positions drawn behind each svg
	// frame; 0 disables it.
	Trail int
}

type FrameStats struct {
	Written    int
	Skipped    int
	Trajectory []pendulum.Vec
	Err        error
}

type frameCanvas interface {
	render.Canvas
	io.WriterTo
}

// WriteFrames advances s for ticks ticks and writes every opt.Every-th frame
// to opt.Dir as frame_NNNNNN.<format>. It stops early when the state
// diverges; the divergence is reported in FrameStats.Err.
func WriteFrames(ctx context.Context, s *sim.Simulator, r *render.Renderer, ticks int, opt FrameOptions) (*FrameStats, error) {
	if opt.Every <= 0 {
		opt.Every = 1
	}
	if opt.Format == "" {
		opt.Format = "svg"
	}
	if opt.Format != "svg" && opt.Format != "png" {
		return nil, fmt.Errorf("unknown frame format: %s", opt.Format)
	}
	if err := os.MkdirAll(opt.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	stats := &FrameStats{Trajectory: make([]pendulum.Vec, 0, ticks)}
	vp := r.Viewport

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if _, err := s.Advance(); err != nil {
			stats.Err = err
			break
		}
		if f, err := r.Project(s.Snapshot()); err == nil {
			stats.Trajectory = append(stats.Trajectory, f.Bob2)
		}

		tick := s.TickCount()
		if tick%opt.Every != 0 {
			continue
		}

		var canvas frameCanvas
		if opt.Format == "png" {
			canvas = NewImageCanvas(vp.Width, vp.Height)
		} else {
			canvas = NewSVGCanvas(vp.Width, vp.Height)
		}

		err := s.Render(r, canvas)
		if errors.Is(err, render.ErrNonFiniteFrame) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		if svg, ok := canvas.(*SVGCanvas); ok && opt.Trail > 0 {
			svg.Path(tail(stats.Trajectory, opt.Trail), 1, render.SteelBlue, 0.4)
		}

		path := filepath.Join(opt.Dir, fmt.Sprintf("frame_%06d.%s", tick, opt.Format))
		if err := writeFile(path, canvas); err != nil {
			return stats, err
		}
		stats.Written++
	}

	return stats, nil
}

func tail(points []pendulum.Vec, n int) []pendulum.Vec {
	if len(points) > n {
		return points[len(points)-n:]
	}
	return points
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveTrajectory writes the outer-bob path as trajectory.svg in dir.
func SaveTrajectory(dir string, points []pendulum.Vec, width, height int) error {
	svg := TrajectoryToSVG(points, width, height, "#4682b4")
	if svg == "" {
		return ErrNoSamples
	}
	return os.WriteFile(filepath.Join(dir, "trajectory.svg"), []byte(svg), 0o644)
}
