package export

import (
	"image"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// ImageCanvas rasterizes render commands with the gonum vg image backend.
// At 72 dpi one display unit (one point) is one pixel.
type ImageCanvas struct {
	Width, Height int
	c             *vgimg.Canvas
}

func NewImageCanvas(w, h int) *ImageCanvas {
	return &ImageCanvas{
		Width:  w,
		Height: h,
		c: vgimg.NewWith(
			vgimg.UseWH(vg.Length(w), vg.Length(h)),
			vgimg.UseDPI(72),
		),
	}
}

// pt converts display coordinates (y down) to vg coordinates (y up).
func (ic *ImageCanvas) pt(v pendulum.Vec) vg.Point {
	return vg.Point{X: vg.Length(v.X), Y: vg.Length(float64(ic.Height) - v.Y)}
}

func (ic *ImageCanvas) Clear(c color.Color) {
	var p vg.Path
	p.Move(vg.Point{})
	p.Line(vg.Point{X: vg.Length(ic.Width)})
	p.Line(vg.Point{X: vg.Length(ic.Width), Y: vg.Length(ic.Height)})
	p.Line(vg.Point{Y: vg.Length(ic.Height)})
	p.Close()
	ic.c.SetColor(c)
	ic.c.Fill(p)
}

func (ic *ImageCanvas) Line(from, to pendulum.Vec, weight float64, c color.Color) {
	var p vg.Path
	p.Move(ic.pt(from))
	p.Line(ic.pt(to))
	ic.c.SetLineWidth(vg.Length(weight))
	ic.c.SetColor(c)
	ic.c.Stroke(p)
}

func (ic *ImageCanvas) Disk(center pendulum.Vec, diameter float64, c color.Color) {
	r := vg.Length(diameter / 2)
	pt := ic.pt(center)
	var p vg.Path
	p.Move(vg.Point{X: pt.X + r, Y: pt.Y})
	p.Arc(pt, r, 0, 2*math.Pi)
	p.Close()
	ic.c.SetColor(c)
	ic.c.Fill(p)
}

func (ic *ImageCanvas) Image() image.Image {
	return ic.c.Image()
}

func (ic *ImageCanvas) WriteTo(w io.Writer) (int64, error) {
	return vgimg.PngCanvas{Canvas: ic.c}.WriteTo(w)
}
