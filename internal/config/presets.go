package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	// the reference scene: five galaxies on a ring drifting into each other
	"merger": func(c *Config) {},
	"binary": func(c *Config) {
		c.Particles = 4000
		c.Galaxies = 2
		c.Layout.BulkSpeed = 0.3
	},
	"single": func(c *Config) {
		c.Particles = 3000
		c.Galaxies = 1
		c.Layout.CenterRadius = 0
		c.Layout.BulkSpeed = 0
	},
	"swarm": func(c *Config) {
		c.Particles = 9600
		c.Galaxies = 12
		c.Layout.CenterRadius = 0.65
		c.Layout.DiskRadius = 0.12
	},
	"quiet": func(c *Config) {
		c.Particles = 1000
		c.Galaxies = 5
		c.StepsPerFrame = 2
		c.Physics.Damping = 0.99
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
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
