package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
	"github.com/san-kum/dpsim/internal/trace"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColWarn    = rl.NewColor(255, 80, 80, 255)
)

const telemetryCapacity = 400

type App struct {
	Sim       *sim.Simulator
	Renderer  *render.Renderer
	Title     string
	Running   bool
	Telemetry []float64
	ShowHUD   bool
	canvas    Canvas
}

func NewApp(s *sim.Simulator, vp render.Viewport, title string) *App {
	return &App{
		Sim:       s,
		Renderer:  render.NewRenderer(vp),
		Title:     title,
		Running:   true,
		Telemetry: make([]float64, 0, telemetryCapacity),
		ShowHUD:   true,
	}
}

// Run opens a raylib window sized to the viewport and loops until it is
// closed or Q is pressed.
func Run(a *App, fps int) {
	vp := a.Renderer.Viewport
	rl.InitWindow(int32(vp.Width), int32(vp.Height), a.Title)
	defer rl.CloseWindow()
	if fps > 0 {
		rl.SetTargetFPS(int32(fps))
	}
	rl.SetExitKey(0)

	a.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	if !a.Running {
		return
	}
	if _, err := a.Sim.Advance(); err != nil {
		return
	}
	a.Telemetry = append(a.Telemetry, a.Sim.Energy())
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()

	if err := a.Sim.Render(a.Renderer, a.canvas); err != nil {
		a.canvas.Clear(a.Renderer.Style.Background)
	}
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	vp := a.Renderer.Viewport
	rl.DrawText(a.Title, 30, 30, 24, ColSelect)
	rl.DrawText(trace.Line(a.Sim.Snapshot()), 30, 62, 16, ColText)
	rl.DrawText(fmt.Sprintf("tick %d", a.Sim.TickCount()), 30, 84, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Sim.Diverged() != nil:
		status, col = "DIVERGED", ColWarn
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, int32(vp.Width)-150, 30, 16, col)

	a.DrawTelemetry()

	rl.DrawText("[SPACE] PAUSE  [R] RESET  [H] HUD  [Q] QUIT", int32(vp.Width)-460, int32(vp.Height)-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, int32(vp.Height)-40, 14, ColTextDim)
}

// DrawTelemetry plots the recent energy history as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	vp := a.Renderer.Viewport
	rectX, rectY := 30, vp.Height-130
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("E: %.2f", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}
