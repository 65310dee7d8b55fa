package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/dpsim/internal/sim"
)

var ErrNoSamples = errors.New("export: result has no sampled states")

// Series is one named line of a time-series plot.
type Series struct {
	Name string
	Ys   []float64
}

func linePlot(title, xlabel, ylabel string, xs []float64, series ...Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Ys) != len(xs) {
			return nil, fmt.Errorf("series %s: %d values for %d ticks", s.Name, len(s.Ys), len(xs))
		}
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j].X = xs[j]
			pts[j].Y = s.Ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if len(series) > 1 {
			p.Legend.Add(s.Name, line)
		}
	}
	return p, nil
}

// WriteRunPlot draws the sampled angles above the energy of result as one
// PNG.
func WriteRunPlot(w io.Writer, result *sim.Result, title string, widthIn, heightIn float64) error {
	n := len(result.States)
	if n == 0 {
		return ErrNoSamples
	}

	xs := make([]float64, n)
	a1 := make([]float64, n)
	a2 := make([]float64, n)
	for i, s := range result.States {
		xs[i] = float64(result.Ticks[i])
		a1[i] = s.Angle1
		a2[i] = s.Angle2
	}

	angles, err := linePlot(title, "tick", "angle (rad)", xs, Series{"angle1", a1}, Series{"angle2", a2})
	if err != nil {
		return err
	}
	energy, err := linePlot("", "tick", "energy", xs, Series{"energy", result.Energies})
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	dc := draw.New(c)
	plots := [][]*plot.Plot{{angles}, {energy}}
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Millimeter * 4}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}

// SaveRunPlot writes WriteRunPlot output to path, creating its directory.
func SaveRunPlot(path string, result *sim.Result, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteRunPlot(bw, result, title, 8, 6); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
