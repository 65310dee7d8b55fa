package export

import (
	"fmt"
	"image/color"
	"io"
	"slices"
	"strings"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// SVGCanvas collects render commands as SVG elements. Each Clear starts a new
// frame.
type SVGCanvas struct {
	Width, Height int
	elems         []string
}

func NewSVGCanvas(w, h int) *SVGCanvas {
	return &SVGCanvas{Width: w, Height: h}
}

func (s *SVGCanvas) Clear(c color.Color) {
	s.elems = append(s.elems[:0], fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, hex(c)))
}

func (s *SVGCanvas) Line(from, to pendulum.Vec, weight float64, c color.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>`,
		from.X, from.Y, to.X, to.Y, hex(c), weight))
}

func (s *SVGCanvas) Disk(center pendulum.Vec, diameter float64, c color.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
		center.X, center.Y, diameter/2, hex(c)))
}

// Path adds a polyline through points just above the background, under the
// pendulum itself. It is used for the trail of the outer bob.
func (s *SVGCanvas) Path(points []pendulum.Vec, width float64, c color.Color, opacity float64) {
	if len(points) < 2 {
		return
	}
	var d strings.Builder
	for i, p := range points {
		if i == 0 {
			d.WriteString(fmt.Sprintf("M%.1f,%.1f", p.X, p.Y))
		} else {
			d.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}
	elem := fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f" d="%s"/>`,
		hex(c), width, opacity, d.String())
	if len(s.elems) == 0 {
		s.elems = append(s.elems, elem)
		return
	}
	s.elems = slices.Insert(s.elems, 1, elem)
}

func (s *SVGCanvas) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.Width, s.Height, s.Width, s.Height))
	for _, e := range s.elems {
		sb.WriteString(e + "\n")
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func (s *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// TrajectoryToSVG draws points (display coordinates) as a single path fitted
// into a width x height image.
func TrajectoryToSVG(points []pendulum.Vec, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	// display y already points down, so no flip
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
