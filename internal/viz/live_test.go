package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

func newModel(t *testing.T) Model {
	t.Helper()
	state, err := pendulum.New(pendulum.ReferenceParams())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(sim.New(state, pendulum.NewIntegrator()), "reference", 60)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicks(t *testing.T) {
	m := newModel(t)

	for i := 0; i < 5; i++ {
		m = send(m, TickMsg(time.Now()))
	}

	if m.sim.TickCount() != 5 {
		t.Errorf("expected 5 ticks, got %d", m.sim.TickCount())
	}
	if len(m.energyHistory) != 5 || len(m.trail) != 5 {
		t.Errorf("expected 5 history entries, got %d energy, %d trail", len(m.energyHistory), len(m.trail))
	}
}

func TestModelPause(t *testing.T) {
	m := newModel(t)

	m = send(m, key(" "))
	m = send(m, TickMsg(time.Now()))
	if m.sim.TickCount() != 0 {
		t.Errorf("expected no ticks while paused, got %d", m.sim.TickCount())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected paused status in view")
	}

	m = send(m, key(" "))
	m = send(m, TickMsg(time.Now()))
	if m.sim.TickCount() != 1 {
		t.Errorf("expected 1 tick after resume, got %d", m.sim.TickCount())
	}
}

func TestModelReset(t *testing.T) {
	m := newModel(t)
	start := m.sim.Snapshot()

	for i := 0; i < 10; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	m = send(m, key("r"))

	if m.sim.Snapshot() != start || m.sim.TickCount() != 0 {
		t.Errorf("expected initial state after reset, got %+v", m.sim.Snapshot())
	}
	if len(m.trail) != 0 || len(m.energyHistory) != 0 {
		t.Error("expected history cleared on reset")
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(t)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelThemeCycle(t *testing.T) {
	m := newModel(t)

	m = send(m, key("t"))
	if m.theme.Name != Themes[1].Name {
		t.Errorf("expected theme %s, got %s", Themes[1].Name, m.theme.Name)
	}
}

func TestModelView(t *testing.T) {
	m := newModel(t)
	m = send(m, TickMsg(time.Now()))
	m = send(m, TickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"REFERENCE", "RUNNING", "Energy", "Tick"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func record(m Model, ticks int) Model {
	m = send(m, key("g"))
	for i := 0; i < ticks; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	return send(m, key("g"))
}

func TestModelRecordGIF(t *testing.T) {
	m := newModel(t)
	m.gifPath = filepath.Join(t.TempDir(), "run.gif")

	m = record(m, 3)
	if m.recording || m.gifErr != nil {
		t.Fatalf("expected a finished recording, got err %v", m.gifErr)
	}
	data, err := os.ReadFile(m.gifPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "GIF89a") {
		t.Error("expected gif header")
	}
}

func TestModelRecordGIFFailure(t *testing.T) {
	m := newModel(t)
	m.gifPath = filepath.Join(t.TempDir(), "missing", "run.gif")

	m = record(m, 3)
	if m.gifErr == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if !strings.Contains(m.View(), "GIF FAILED") {
		t.Error("expected the failure in the status line")
	}

	m = send(m, key("g"))
	if m.gifErr != nil {
		t.Error("expected a new recording to clear the error")
	}
}

func TestPickerStartsPreset(t *testing.T) {
	var built *config.Config
	build := func(cfg *config.Config) (*sim.Simulator, error) {
		built = cfg
		state, err := pendulum.New(cfg.Params())
		if err != nil {
			return nil, err
		}
		return sim.New(state, cfg.NewIntegrator()), nil
	}

	var m tea.Model = NewPicker(build, 60, "steel")
	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	p := m.(picker)
	if p.state != stateSim {
		t.Fatal("expected picker to switch to the live model")
	}
	if cmd == nil {
		t.Error("expected the live model to schedule a tick")
	}
	if built == nil || *built != *config.GetPreset(p.presets[1]) {
		t.Errorf("expected preset %s to be built", p.presets[1])
	}
}

func TestPresetInfoCoversPresets(t *testing.T) {
	for _, name := range config.ListPresets() {
		if presetInfo[name] == "" {
			t.Errorf("missing description for preset %s", name)
		}
	}
}
