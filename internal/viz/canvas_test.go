package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}, {100, 100}} {
		c.Set(p[0], p[1])
	}
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != 0x2800 && r != '\n' }) {
		t.Error("out-of-bounds set leaked onto the canvas")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)

	c.DrawLine(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected diagonal dot at %d", i)
		}
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)

	c.FillCircle(10, 10, 2)
	for _, p := range [][2]int{{10, 10}, {12, 10}, {10, 8}, {11, 11}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected %v inside circle", p)
		}
	}
	if c.IsSet(12, 12) {
		t.Error("corner outside radius should stay clear")
	}

	c.Erase()
	c.FillCircle(4, 4, 0.3)
	if !c.IsSet(4, 4) {
		t.Error("tiny circle should still mark its center")
	}
}

func TestCanvasAsRenderTarget(t *testing.T) {
	c := NewCanvas(width, height)
	w, h := c.Dots()
	r := render.NewRenderer(render.DefaultViewport().Fit(w, h, 400))

	s := pendulum.Snapshot{Mass1: 40, Mass2: 40, Length1: 200, Length2: 200}
	if err := r.Render(s, c); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	// hanging straight down from the centre pivot
	f, _ := r.Project(s)
	for _, p := range []pendulum.Vec{f.Pivot, f.Bob1, f.Bob2} {
		if !c.IsSet(round(p.X), round(p.Y)) {
			t.Errorf("expected dot at %+v", p)
		}
	}

	// a new frame starts from a blank grid
	c.Set(0, 0)
	r.Render(s, c)
	if c.IsSet(0, 0) {
		t.Error("expected Clear to erase previous frame")
	}
}
