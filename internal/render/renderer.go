package render

import (
	"errors"
	"image/color"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// ErrNonFiniteFrame is returned when an endpoint is NaN or infinite; no
// commands are issued for that frame.
var ErrNonFiniteFrame = errors.New("render: non-finite frame skipped")

var (
	SteelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	Black     = color.RGBA{A: 255}
)

const DefaultRodWeight = 4.0

// Style controls colors and rod thickness.
type Style struct {
	Background color.Color
	Rod        color.Color
	Bob        color.Color
	RodWeight  float64
}

func DefaultStyle() Style {
	return Style{
		Background: Black,
		Rod:        SteelBlue,
		Bob:        SteelBlue,
		RodWeight:  DefaultRodWeight,
	}
}

type Renderer struct {
	Viewport Viewport
	Style    Style
}

func NewRenderer(vp Viewport) *Renderer {
	return &Renderer{Viewport: vp, Style: DefaultStyle()}
}

// Frame is the display-space geometry of one snapshot.
type Frame struct {
	Pivot, Bob1, Bob2 pendulum.Vec
	Size1, Size2      float64
}

// Project computes the display-space frame for s.
func (r *Renderer) Project(s pendulum.Snapshot) (Frame, error) {
	p1, p2 := pendulum.Endpoints(s)
	if !p1.IsFinite() || !p2.IsFinite() {
		return Frame{}, ErrNonFiniteFrame
	}
	scale := r.Viewport.scale()
	return Frame{
		Pivot: r.Viewport.Pivot(),
		Bob1:  r.Viewport.ToScreen(p1),
		Bob2:  r.Viewport.ToScreen(p2),
		Size1: s.Mass1 * scale,
		Size2: s.Mass2 * scale,
	}, nil
}

// Render clears c and draws rod 1, bob 1, rod 2, bob 2. Disk diameters are
// the masses.
func (r *Renderer) Render(s pendulum.Snapshot, c Canvas) error {
	f, err := r.Project(s)
	if err != nil {
		return err
	}
	st := r.Style
	c.Clear(st.Background)
	c.Line(f.Pivot, f.Bob1, st.RodWeight, st.Rod)
	c.Disk(f.Bob1, f.Size1, st.Bob)
	c.Line(f.Bob1, f.Bob2, st.RodWeight, st.Rod)
	c.Disk(f.Bob2, f.Size2, st.Bob)
	return nil
}
