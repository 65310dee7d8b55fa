package render

import "github.com/san-kum/dpsim/internal/pendulum"

const (
	DefaultWidth       = 1440
	DefaultHeight      = 720
	DefaultPivotOffset = 50.0
)

// Viewport maps the physics frame (origin at the pivot, y along the downward
// vertical) onto the display frame: the pivot sits at the horizontal center,
// PivotOffset below the top edge.
type Viewport struct {
	Width, Height int
	PivotOffset   float64
	Scale         float64
}

func DefaultViewport() Viewport {
	return Viewport{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		PivotOffset: DefaultPivotOffset,
		Scale:       1,
	}
}

func (v Viewport) Pivot() pendulum.Vec {
	return pendulum.Vec{X: float64(v.Width) / 2, Y: v.PivotOffset}
}

func (v Viewport) ToScreen(p pendulum.Vec) pendulum.Vec {
	s := v.scale()
	pivot := v.Pivot()
	return pendulum.Vec{X: pivot.X + s*p.X, Y: pivot.Y + s*p.Y}
}

// fromScreen inverts ToScreen.
func (v Viewport) fromScreen(p pendulum.Vec) pendulum.Vec {
	s := v.scale()
	pivot := v.Pivot()
	return pendulum.Vec{X: (p.X - pivot.X) / s, Y: (p.Y - pivot.Y) / s}
}

// Fit returns a copy of v resized to w×h with the scale chosen so that a
// fully extended pendulum of the given reach stays inside the frame.
func (v Viewport) Fit(w, h int, reach float64) Viewport {
	out := v
	out.Width, out.Height = w, h
	if reach <= 0 {
		return out
	}
	out.PivotOffset = float64(h) / 2
	half := float64(w) / 2
	if vertical := float64(h) / 2; vertical < half {
		half = vertical
	}
	out.Scale = 0.95 * half / reach
	return out
}

func (v Viewport) scale() float64 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}
