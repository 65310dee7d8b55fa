package render

import (
	"testing"

	"github.com/san-kum/dpsim/internal/pendulum"
)

func TestViewportRoundTrip(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600, PivotOffset: 40, Scale: 0.5}

	tests := []pendulum.Vec{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: -150, Y: 320}, {X: 12.5, Y: -7}}
	for _, p := range tests {
		got := vp.fromScreen(vp.ToScreen(p))
		if !near(got, p) {
			t.Errorf("round trip of %v gave %v", p, got)
		}
	}
}

func TestViewportPivot(t *testing.T) {
	vp := DefaultViewport()
	if got := vp.ToScreen(pendulum.Vec{}); !near(got, pendulum.Vec{X: 720, Y: 50}) {
		t.Errorf("expected pivot at (720, 50), got %v", got)
	}
	// y grows downward on screen
	if got := vp.ToScreen(pendulum.Vec{Y: 10}); got.Y <= 50 {
		t.Errorf("expected y below pivot, got %v", got)
	}
}

func TestViewportZeroScale(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	if got := vp.ToScreen(pendulum.Vec{X: 10, Y: 10}); !near(got, pendulum.Vec{X: 60, Y: 10}) {
		t.Errorf("expected unit scale fallback, got %v", got)
	}
}

func TestViewportFit(t *testing.T) {
	vp := DefaultViewport().Fit(160, 96, 400)

	if vp.Width != 160 || vp.Height != 96 {
		t.Errorf("expected 160x96, got %dx%d", vp.Width, vp.Height)
	}
	// a fully extended pendulum must stay inside the frame in every direction
	for _, p := range []pendulum.Vec{{X: 400, Y: 0}, {X: -400, Y: 0}, {X: 0, Y: 400}, {X: 0, Y: -400}} {
		s := vp.ToScreen(p)
		if s.X < 0 || s.X > 160 || s.Y < 0 || s.Y > 96 {
			t.Errorf("extended point %v mapped outside frame: %v", p, s)
		}
	}
}
