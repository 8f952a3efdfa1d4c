package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

const (
	DefaultParticles     = 8000
	DefaultGalaxies      = 5
	DefaultStepsPerFrame = 8
	DefaultSeed          = 1

	DefaultG           = 1.0
	DefaultSoftening   = 0.015
	DefaultDt          = 6e-4
	DefaultDamping     = 0.999
	DefaultMaxSpeed    = 10.0
	DefaultHalfExtent  = 1.0
	DefaultRestitution = 0.5

	DefaultCenterRadius = 0.5
	DefaultDiskRadius   = 0.25
	DefaultBulkSpeed    = 0.2
	DefaultSpin         = 1.5
	DefaultSpinOffset   = 0.05

	DefaultWidth       = 900
	DefaultHeight      = 900
	DefaultFPS         = 60
	DefaultPointRadius = 0.002
)

// Config is fixed before a simulation starts and never reloaded.
type Config struct {
	Seed          int64         `yaml:"seed"`
	Particles     int           `yaml:"particles"`
	Galaxies      int           `yaml:"galaxies"`
	StepsPerFrame int           `yaml:"steps_per_frame"`
	Backend       string        `yaml:"backend"`
	Workers       int           `yaml:"workers"`
	ValidateState bool          `yaml:"validate_state"`
	Physics       PhysicsConfig `yaml:"physics"`
	Layout        LayoutConfig  `yaml:"layout"`
	Render        RenderConfig  `yaml:"render"`
}

type PhysicsConfig struct {
	G           float32 `yaml:"g"`
	Softening   float32 `yaml:"softening"`
	Dt          float32 `yaml:"dt"`
	Damping     float32 `yaml:"damping"`
	MaxSpeed    float32 `yaml:"max_speed"`
	HalfExtent  float32 `yaml:"half_extent"`
	Restitution float32 `yaml:"restitution"`
}

type LayoutConfig struct {
	CenterRadius float32 `yaml:"center_radius"`
	DiskRadius   float32 `yaml:"disk_radius"`
	BulkSpeed    float32 `yaml:"bulk_speed"`
	Spin         float32 `yaml:"spin"`
	SpinOffset   float32 `yaml:"spin_offset"`
}

type RenderConfig struct {
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	FPS         int        `yaml:"fps"`
	PointRadius float32    `yaml:"point_radius"`
	Background  [3]float32 `yaml:"background"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:          DefaultSeed,
		Particles:     DefaultParticles,
		Galaxies:      DefaultGalaxies,
		StepsPerFrame: DefaultStepsPerFrame,
		Backend:       "cpu",
		Physics: PhysicsConfig{
			G:           DefaultG,
			Softening:   DefaultSoftening,
			Dt:          DefaultDt,
			Damping:     DefaultDamping,
			MaxSpeed:    DefaultMaxSpeed,
			HalfExtent:  DefaultHalfExtent,
			Restitution: DefaultRestitution,
		},
		Layout: LayoutConfig{
			CenterRadius: DefaultCenterRadius,
			DiskRadius:   DefaultDiskRadius,
			BulkSpeed:    DefaultBulkSpeed,
			Spin:         DefaultSpin,
			SpinOffset:   DefaultSpinOffset,
		},
		Render: RenderConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			FPS:         DefaultFPS,
			PointRadius: DefaultPointRadius,
			Background:  [3]float32{0, 0, 0.05},
		},
	}
}

// Load overlays the yaml file at path on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the yaml file at path on a copy of base. Keys absent
// from the file keep base's values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, dynamo.ConfigError("%s: %v", path, err)
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

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// FitParticles rounds n down to a multiple of galaxies, but never below
// one particle per galaxy, so the result always partitions evenly.
func FitParticles(n, galaxies int) int {
	return max(n-n%galaxies, galaxies)
}

// PerGalaxy is the length of each contiguous galaxy index range.
func (c *Config) PerGalaxy() int {
	return c.Particles / c.Galaxies
}

// Validate reports the first setting that would make the run ill-defined.
// Every error wraps dynamo.ErrConfig.
func (c *Config) Validate() error {
	switch {
	case c.Particles <= 0:
		return dynamo.ConfigError("particles must be positive, got %d", c.Particles)
	case c.Galaxies <= 0:
		return dynamo.ConfigError("galaxies must be positive, got %d", c.Galaxies)
	case c.Galaxies > c.Particles:
		return dynamo.ConfigError("galaxies %d exceed particles %d", c.Galaxies, c.Particles)
	case c.Particles%c.Galaxies != 0:
		return dynamo.ConfigError("particles %d not divisible by galaxies %d", c.Particles, c.Galaxies)
	case c.StepsPerFrame < 1:
		return dynamo.ConfigError("steps_per_frame must be at least 1, got %d", c.StepsPerFrame)
	}

	p := c.Physics
	switch {
	case p.Dt <= 0:
		return dynamo.ConfigError("dt must be positive, got %g", p.Dt)
	case p.Softening < 0:
		return dynamo.ConfigError("softening must not be negative, got %g", p.Softening)
	case p.Damping <= 0 || p.Damping > 1:
		return dynamo.ConfigError("damping must be in (0, 1], got %g", p.Damping)
	case p.MaxSpeed <= 0:
		return dynamo.ConfigError("max_speed must be positive, got %g", p.MaxSpeed)
	case p.HalfExtent <= 0:
		return dynamo.ConfigError("half_extent must be positive, got %g", p.HalfExtent)
	case p.Restitution < 0 || p.Restitution > 1:
		return dynamo.ConfigError("restitution must be in [0, 1], got %g", p.Restitution)
	}

	if c.Layout.DiskRadius < 0 {
		return dynamo.ConfigError("disk_radius must not be negative, got %g", c.Layout.DiskRadius)
	}

	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return dynamo.ConfigError("render size must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.FPS <= 0 {
		return dynamo.ConfigError("fps must be positive, got %d", r.FPS)
	}
	return nil
}
