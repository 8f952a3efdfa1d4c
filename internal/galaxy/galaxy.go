// Package galaxy places particles into rotating disks arranged on a ring.
package galaxy

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/particle"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float32() float32
}

// NewRandSource returns a seeded math/rand generator.
func NewRandSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// ID maps a particle index onto its contiguous galaxy range.
func ID(i, particles, galaxies int) int {
	return i / (particles / galaxies)
}

type Initializer struct {
	particles int
	galaxies  int
	layout    config.LayoutConfig
	src       Source
}

// NewInitializer expects a validated config.
func NewInitializer(cfg *config.Config, src Source) *Initializer {
	return &Initializer{
		particles: cfg.Particles,
		galaxies:  cfg.Galaxies,
		layout:    cfg.Layout,
		src:       src,
	}
}

// Center returns the disk center of galaxy id and its ring angle.
func (in *Initializer) Center(id int) (center mgl32.Vec2, angle float64) {
	angle = 2 * math.Pi * float64(id) / float64(in.galaxies)
	r := float64(in.layout.CenterRadius)
	return mgl32.Vec2{float32(r * math.Cos(angle)), float32(r * math.Sin(angle))}, angle
}

// Initialize writes mass, position and velocity of every particle. Draws
// are consumed in index order, two per particle, so a fixed Source
// reproduces the store exactly.
func (in *Initializer) Initialize(s *particle.Store) {
	mass := 1 / float32(in.particles)
	for i := 0; i < in.particles; i++ {
		id := ID(i, in.particles, in.galaxies)
		center, angle := in.Center(id)

		u := float64(in.src.Float32())
		theta := 2 * math.Pi * float64(in.src.Float32())
		r := float64(in.layout.DiskRadius) * math.Sqrt(u)
		p := center.Add(mgl32.Vec2{float32(r * math.Cos(theta)), float32(r * math.Sin(theta))})

		bulk := mgl32.Vec2{float32(-math.Sin(angle)), float32(math.Cos(angle))}.Mul(in.layout.BulkSpeed)

		spin := in.layout.Spin
		if id%2 != 0 {
			spin = -spin
		}
		rel := p.Sub(center)
		dist := rel.Len()
		var tang mgl32.Vec2
		if dist > 0 {
			tang = mgl32.Vec2{-rel[1], rel[0]}.Normalize()
		}

		s.SetMass(i, mass)
		s.SetPosition(i, p)
		s.SetVelocity(i, bulk.Add(tang.Mul(spin*(dist+in.layout.SpinOffset))))
	}
}
