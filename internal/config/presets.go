package config

import "sort"

// Presets are named starting conditions. Each entry only overrides the
// defaults it names; see GetPreset.
var Presets = map[string]func(c *Config){
	// both rods horizontal, the reference start
	"reference": func(c *Config) {},
	"gentle": func(c *Config) {
		c.Angle1, c.Angle2 = 0.3, 0.3
	},
	"chaos": func(c *Config) {
		c.Angle1, c.Angle2 = 2.5, 2.5
		c.Dt = 0.25
	},
	"lopsided": func(c *Config) {
		c.Angle1, c.Angle2 = 2.0, 1.0
		c.Mass2 = 10
		c.Length2 = 100
	},
	"damped": func(c *Config) {
		c.ApplyDamping = true
		c.Damping = 0.001
	},
}

// GetPreset returns a fresh config with the named preset applied over the
// defaults, or nil when no such preset exists.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
