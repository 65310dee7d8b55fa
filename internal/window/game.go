// Package window runs the pendulum in a desktop window through ebiten.
//
// Each ebiten Update advances the simulation by one tick and each Draw
// renders the current state, so with the default TPS of 60 the pendulum
// moves one tick per displayed frame.
package window

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
	"github.com/san-kum/dpsim/internal/trace"
)

type Game struct {
	sim      *sim.Simulator
	renderer *render.Renderer
	canvas   Canvas
	paused   bool
	overlay  bool
}

func NewGame(s *sim.Simulator, vp render.Viewport) *Game {
	return &Game{
		sim:      s,
		renderer: render.NewRenderer(vp),
		overlay:  true,
	}
}

func (g *Game) handleInput() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sim.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.overlay = !g.overlay
	}
	return nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if !g.paused {
		// a diverged simulator stays frozen; the overlay reports it
		g.sim.Advance()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.screen = screen
	if err := g.sim.Render(g.renderer, &g.canvas); err != nil {
		screen.Fill(g.renderer.Style.Background)
	}
	if g.overlay {
		ebitenutil.DebugPrint(screen, g.status())
	}
}

func (g *Game) status() string {
	s := fmt.Sprintf("%s\ntick: %d  energy: %.2f", trace.Line(g.sim.Snapshot()), g.sim.TickCount(), g.sim.Energy())
	if err := g.sim.Diverged(); err != nil {
		s += "\n" + err.Error() + " (R to reset)"
	} else if g.paused {
		s += "\npaused"
	}
	if n := g.sim.Clamps(); n > 0 {
		s += fmt.Sprintf("\nclamped ticks: %d", n)
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := g.renderer.Viewport
	return vp.Width, vp.Height
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(g *Game, title string, tps int) error {
	vp := g.renderer.Viewport
	ebiten.SetWindowSize(vp.Width, vp.Height)
	ebiten.SetWindowTitle(title)
	if tps > 0 {
		ebiten.SetTPS(tps)
	}

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
