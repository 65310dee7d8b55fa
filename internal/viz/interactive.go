package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/sim"
)

// Builder turns a config into a ready simulator.
type Builder func(cfg *config.Config) (*sim.Simulator, error)

var presetInfo = map[string]string{
	"reference": "both rods horizontal",
	"gentle":    "small swing, near linear",
	"chaos":     "high start, fine step",
	"lopsided":  "light short outer rod",
	"damped":    "reference with damping on",
}

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state     int
	cursor    int
	presets   []string
	build     Builder
	fps       int
	theme     Theme
	styles    styles
	err       error
	liveModel Model
}

func NewPicker(build Builder, fps int, theme string) tea.Model {
	t := GetTheme(theme)
	return picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		build:   build,
		fps:     fps,
		theme:   t,
		styles:  newStyles(t),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	s, err := m.build(config.GetPreset(name))
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.liveModel = NewModel(s, name, m.fps).WithTheme(m.theme.Name)
	m.state = stateSim
	return m, m.liveModel.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}

	st := m.styles
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("DPSIM") + "\n    " + st.muted.Render("double pendulum") + "\n    " + st.muted.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.cursor.Render("▸"), st.item.Render(fmt.Sprintf("%-12s", name)), st.value.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", st.muted.Render(fmt.Sprintf("%-12s", name)), st.muted.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + st.failed.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.cursor.Render("j/k") + st.muted.Render(" navigate  ") + st.cursor.Render("enter") + st.muted.Render(" start  ") + st.cursor.Render("q") + st.muted.Render(" quit") + "\n")
	return b.String()
}

// RunPicker shows the preset menu on the alternate screen.
func RunPicker(build Builder, fps int, theme string) error {
	_, err := tea.NewProgram(NewPicker(build, fps, theme), tea.WithAltScreen()).Run()
	return err
}
