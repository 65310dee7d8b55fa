package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dpsim/internal/integrators"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
)

const (
	DefaultIntegrator = "semi-implicit"
	DefaultTicks      = 10000
	DefaultFPS        = 60
	DefaultScale      = 1.0
)

// Config holds every startup parameter. Zero values in a loaded file fall back
// to DefaultConfig because Load unmarshals over the defaults.
type Config struct {
	Integrator       string  `yaml:"integrator" json:"integrator"`
	Ticks            int     `yaml:"ticks" json:"ticks"`
	Width            int     `yaml:"width" json:"width"`
	Height           int     `yaml:"height" json:"height"`
	FPS              int     `yaml:"fps" json:"fps"`
	PivotOffset      float64 `yaml:"pivot_offset" json:"pivot_offset"`
	Scale            float64 `yaml:"scale" json:"scale"`
	Gravity          float64 `yaml:"gravity" json:"gravity"`
	Damping          float64 `yaml:"damping" json:"damping"`
	ApplyDamping     bool    `yaml:"apply_damping" json:"apply_damping"`
	Dt               float64 `yaml:"dt" json:"dt"`
	DenominatorFloor float64 `yaml:"denominator_floor" json:"denominator_floor"`
	Angle1           float64 `yaml:"angle1" json:"angle1"`
	Angle2           float64 `yaml:"angle2" json:"angle2"`
	Mass1            float64 `yaml:"mass1" json:"mass1"`
	Mass2            float64 `yaml:"mass2" json:"mass2"`
	Length1          float64 `yaml:"length1" json:"length1"`
	Length2          float64 `yaml:"length2" json:"length2"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:       DefaultIntegrator,
		Ticks:            DefaultTicks,
		Width:            render.DefaultWidth,
		Height:           render.DefaultHeight,
		FPS:              DefaultFPS,
		PivotOffset:      render.DefaultPivotOffset,
		Scale:            DefaultScale,
		Gravity:          pendulum.DefaultGravity,
		Damping:          pendulum.DefaultDamping,
		Dt:               pendulum.DefaultDt,
		DenominatorFloor: pendulum.DefaultDenominatorFloor,
		Angle1:           pendulum.ReferenceAngle,
		Angle2:           pendulum.ReferenceAngle,
		Mass1:            pendulum.ReferenceMass,
		Mass2:            pendulum.ReferenceMass,
		Length1:          pendulum.ReferenceLength,
		Length2:          pendulum.ReferenceLength,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base; keys missing from the file keep the
// value in base. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first key outside its valid range. Every error wraps
// pendulum.ErrInvalidParameter.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}

	positiveInts := []struct {
		name  string
		value int
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"fps", c.FPS},
	}
	for _, f := range positiveInts {
		if f.value <= 0 {
			return invalid("%s must be positive, got %d", f.name, f.value)
		}
	}
	if c.Ticks < 0 {
		return invalid("ticks must not be negative, got %d", c.Ticks)
	}

	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return invalid("dt must be positive and finite, got %g", c.Dt)
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
		return invalid("scale must be positive and finite, got %g", c.Scale)
	}
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) {
		return invalid("gravity must be finite, got %g", c.Gravity)
	}
	if math.IsNaN(c.PivotOffset) || math.IsInf(c.PivotOffset, 0) {
		return invalid("pivot_offset must be finite, got %g", c.PivotOffset)
	}
	if !(c.Damping >= 0 && c.Damping < 1) {
		return invalid("damping must be in [0, 1), got %g", c.Damping)
	}
	if !(c.DenominatorFloor >= 0) || math.IsInf(c.DenominatorFloor, 0) {
		return invalid("denominator_floor must not be negative, got %g", c.DenominatorFloor)
	}

	if _, err := integrators.ByName(c.Integrator); err != nil {
		return invalid("integrator: %v", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{pendulum.ErrInvalidParameter}, args...)...)
}

func (c *Config) Params() pendulum.Params {
	return pendulum.Params{
		Angle1:  c.Angle1,
		Angle2:  c.Angle2,
		Mass1:   c.Mass1,
		Mass2:   c.Mass2,
		Length1: c.Length1,
		Length2: c.Length2,
	}
}

func (c *Config) NewIntegrator() *pendulum.Integrator {
	return &pendulum.Integrator{
		Gravity:          c.Gravity,
		Damping:          c.Damping,
		ApplyDamping:     c.ApplyDamping,
		Dt:               c.Dt,
		DenominatorFloor: c.DenominatorFloor,
	}
}

func (c *Config) Viewport() render.Viewport {
	return render.Viewport{
		Width:       c.Width,
		Height:      c.Height,
		PivotOffset: c.PivotOffset,
		Scale:       c.Scale,
	}
}

// Scheme returns nil for the built-in semi-implicit step so the simulator
// uses Integrator.Step directly.
func (c *Config) Scheme() (integrators.Scheme, error) {
	if c.Integrator == DefaultIntegrator {
		return nil, nil
	}
	return integrators.ByName(c.Integrator)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
