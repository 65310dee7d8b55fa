package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Canvas draws render commands onto an ebiten screen image.
type Canvas struct {
	screen *ebiten.Image
}

func (c *Canvas) Clear(col color.Color) {
	c.screen.Fill(col)
}

func (c *Canvas) Line(from, to pendulum.Vec, weight float64, col color.Color) {
	vector.StrokeLine(c.screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(weight), col, true)
}

func (c *Canvas) Disk(center pendulum.Vec, diameter float64, col color.Color) {
	vector.DrawFilledCircle(c.screen, float32(center.X), float32(center.Y), float32(diameter/2), col, true)
}
