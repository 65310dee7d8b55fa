package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Canvas issues render commands as immediate raylib draw calls; it must be
// used between rl.BeginDrawing and rl.EndDrawing.
type Canvas struct{}

func (Canvas) Clear(c color.Color) {
	rl.ClearBackground(toRL(c))
}

func (Canvas) Line(from, to pendulum.Vec, weight float64, c color.Color) {
	rl.DrawLineEx(vec2(from), vec2(to), float32(weight), toRL(c))
}

func (Canvas) Disk(center pendulum.Vec, diameter float64, c color.Color) {
	rl.DrawCircleV(vec2(center), float32(diameter/2), toRL(c))
}

func vec2(v pendulum.Vec) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func toRL(c color.Color) rl.Color {
	r, g, b, a := c.RGBA()
	return rl.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}
