package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200
	sparkWidth      = 30
)

type TickMsg time.Time

type trailPoint struct{ x, y int }

// Model is the bubbletea model of a running pendulum. Every TickMsg is one
// simulation tick drawn onto the braille canvas.
type Model struct {
	sim           *sim.Simulator
	renderer      *render.Renderer
	canvas        *Canvas
	title         string
	fps           int
	theme         Theme
	styles        styles
	trail         []trailPoint
	energyHistory []float64
	angleHistory  []float64
	running       bool
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
	gifPath       string
	gifErr        error
}

// NewModel wraps s. The viewport is fitted to the terminal canvas so the
// fully extended pendulum stays on screen.
func NewModel(s *sim.Simulator, title string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	canvas := NewCanvas(width, height)
	snap := s.Snapshot()
	w, h := canvas.Dots()
	vp := render.DefaultViewport().Fit(w, h, snap.Length1+snap.Length2)

	m := Model{
		sim:           s,
		renderer:      render.NewRenderer(vp),
		canvas:        canvas,
		title:         title,
		fps:           fps,
		theme:         ThemeSteel,
		styles:        newStyles(ThemeSteel),
		trail:         make([]trailPoint, 0, trailCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		angleHistory:  make([]float64, 0, historyCapacity),
		running:       true,
		gifPath:       "dpsim.gif",
	}
	s.AttachRenderer(m.renderer, canvas)
	m.draw()
	return m
}

// WithTheme selects the initial color theme by name.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.styles = newStyles(m.theme)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			if m.recording {
				m.gifErr = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.gifErr = nil
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		}
	case TickMsg:
		if m.running && m.sim.Diverged() == nil {
			m.step()
		}
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one tick; the simulator renders onto the canvas, then the trail
// is overlaid.
func (m *Model) step() {
	if _, err := m.sim.Tick(); err != nil {
		return
	}

	snap := m.sim.Snapshot()
	m.energyHistory = appendBounded(m.energyHistory, m.sim.Energy(), historyCapacity)
	m.angleHistory = appendBounded(m.angleHistory, snap.Angle2, historyCapacity)

	if f, err := m.renderer.Project(snap); err == nil {
		m.trail = append(m.trail, trailPoint{round(f.Bob2.X), round(f.Bob2.Y)})
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
}

// draw renders the current state without stepping.
func (m *Model) draw() {
	m.sim.Render(m.renderer, m.canvas)
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	m.angleHistory = m.angleHistory[:0]
	m.draw()
}

func appendBounded(s []float64, v float64, limit int) []float64 {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

func (m Model) status() string {
	st := m.styles
	switch {
	case m.sim.Diverged() != nil:
		return st.failed.Render("DIVERGED")
	case !m.running:
		return st.paused.Render("PAUSED")
	case m.recording:
		return st.failed.Render("● REC")
	case m.gifErr != nil:
		return st.failed.Render("GIF FAILED: " + m.gifErr.Error())
	}
	return st.running.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	snap := m.sim.Snapshot()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.TickCount()))
	row("Angle 1", fmt.Sprintf("%.4f", snap.Angle1))
	row("Angle 2", fmt.Sprintf("%.4f", snap.Angle2))
	row("Speed 1", fmt.Sprintf("%.5f", snap.Velocity1))
	row("Speed 2", fmt.Sprintf("%.5f", snap.Velocity2))
	row("Energy", fmt.Sprintf("%.2f", m.sim.Energy()))
	if n := m.sim.Clamps(); n > 0 {
		row("Clamps", fmt.Sprintf("%d", n))
	}
	if n := m.sim.SkippedFrames(); n > 0 {
		row("Skipped", fmt.Sprintf("%d", n))
	}
	s.WriteString("\n" + st.label.Render("Angle 2") + "\n" + st.sparkline(m.angleHistory, sparkWidth) + "\n")

	s.WriteString(st.help.Render(st.separator(30) + "\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help"))

	statsView := st.stats.Render(s.String())
	canvasView := st.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// captureFrame rasterizes the braille grid, one 4x4 block per dot.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, render.SteelBlue})

	w, h := m.canvas.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/m.fps+1)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
