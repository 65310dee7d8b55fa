package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dpsim/internal/pendulum"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 1440 || cfg.Height != 720 {
		t.Errorf("expected 1440x720, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Gravity != 1 || cfg.Dt != 1 {
		t.Errorf("expected unit gravity and dt, got %f, %f", cfg.Gravity, cfg.Dt)
	}
	if cfg.ApplyDamping {
		t.Error("damping should be off by default")
	}
	if cfg.Damping != 0.0001 {
		t.Errorf("expected damping constant 0.0001, got %f", cfg.Damping)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if cfg.Params() != pendulum.ReferenceParams() {
		t.Errorf("expected reference params, got %+v", cfg.Params())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		modify func(c *Config)
	}{
		{"zero mass", "mass1", func(c *Config) { c.Mass1 = 0 }},
		{"negative length", "length2", func(c *Config) { c.Length2 = -1 }},
		{"NaN angle", "angle1", func(c *Config) { c.Angle1 = math.NaN() }},
		{"zero width", "width", func(c *Config) { c.Width = 0 }},
		{"zero fps", "fps", func(c *Config) { c.FPS = 0 }},
		{"negative ticks", "ticks", func(c *Config) { c.Ticks = -1 }},
		{"zero dt", "dt", func(c *Config) { c.Dt = 0 }},
		{"zero scale", "scale", func(c *Config) { c.Scale = 0 }},
		{"infinite gravity", "gravity", func(c *Config) { c.Gravity = math.Inf(1) }},
		{"damping of one", "damping", func(c *Config) { c.Damping = 1 }},
		{"negative floor", "denominator_floor", func(c *Config) { c.DenominatorFloor = -1 }},
		{"unknown integrator", "integrator", func(c *Config) { c.Integrator = "leapfrog" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, pendulum.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error to name %q, got %v", tt.key, err)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dpsim.yaml")
	data := "angle1: 0.5\nmass2: 12\napply_damping: true\nintegrator: rk4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Angle1 != 0.5 || cfg.Mass2 != 12 || !cfg.ApplyDamping || cfg.Integrator != "rk4" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Angle2 != pendulum.ReferenceAngle || cfg.Width != 1440 {
		t.Errorf("unset keys should keep defaults: %+v", cfg)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dpsim.yaml")
	if err := os.WriteFile(path, []byte("mass1: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("chaos")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Mass1 != 5 {
		t.Errorf("expected mass1 5, got %f", cfg.Mass1)
	}
	if cfg.Dt != base.Dt {
		t.Errorf("expected preset dt %f, got %f", base.Dt, cfg.Dt)
	}
	if base.Mass1 == 5 {
		t.Error("base should not be modified")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("mass1: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dpsim.yaml")
	cfg := GetPreset("lopsided")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("chaos")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Angle1 != 2.5 || cfg.Dt != 0.25 {
		t.Errorf("expected angle 2.5 at dt 0.25, got %f at %f", cfg.Angle1, cfg.Dt)
	}
	if cfg.Mass1 != pendulum.ReferenceMass {
		t.Errorf("expected untouched mass, got %f", cfg.Mass1)
	}

	// presets hand out fresh copies
	cfg.Angle1 = 0
	if GetPreset("chaos").Angle1 != 2.5 {
		t.Error("preset mutated through returned config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestPresetsStayFinite(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		s, err := pendulum.New(cfg.Params())
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		in := cfg.NewIntegrator()
		for i := 0; i < 2000; i++ {
			in.Step(s)
		}
		if !s.IsFinite() {
			t.Errorf("preset %s diverged: %+v", name, s.Snapshot())
		}
	}
}

func TestScheme(t *testing.T) {
	cfg := DefaultConfig()
	if s, err := cfg.Scheme(); s != nil || err != nil {
		t.Errorf("expected built-in step for default, got %v, %v", s, err)
	}

	cfg.Integrator = "rk4"
	if s, err := cfg.Scheme(); s == nil || err != nil {
		t.Errorf("expected rk4 scheme, got %v, %v", s, err)
	}
}

func TestViewport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scale = 0.5
	vp := cfg.Viewport()
	if vp.Width != 1440 || vp.PivotOffset != 50 || vp.Scale != 0.5 {
		t.Errorf("unexpected viewport %+v", vp)
	}
}
