// Package shader turns particle state into the per-frame render buffer.
package shader

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/particle"
)

const (
	// palette phases, in radians
	hueScale = 6.28
	phaseG   = 2.09
	phaseB   = 4.18

	brightnessGain  = 0.3
	brightnessFloor = 0.2

	shadeChunk = 512
)

// Frame is the render buffer handed to renderers. Positions are in [0,1]²,
// colors in [0,1]³, both aligned with particle indices.
type Frame struct {
	Positions []mgl32.Vec2
	Colors    []mgl32.Vec3
}

func NewFrame(n int) *Frame {
	return &Frame{
		Positions: make([]mgl32.Vec2, n),
		Colors:    make([]mgl32.Vec3, n),
	}
}

func (f *Frame) Len() int { return len(f.Positions) }

// Channel quantizes a [0,1] color component to 8 bits, clamping outside.
func Channel(f float32) uint8 {
	return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
}

// Hex formats a [0,1] RGB color as #rrggbb.
func Hex(c mgl32.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", Channel(c[0]), Channel(c[1]), Channel(c[2]))
}

type Shader struct {
	particles  int
	galaxies   int
	halfExtent float32
	workers    int
	palette    []mgl32.Vec3
}

func New(cfg *config.Config) *Shader {
	palette := make([]mgl32.Vec3, cfg.Galaxies)
	for id := range palette {
		palette[id] = BaseColor(id, cfg.Galaxies)
	}
	return &Shader{
		particles:  cfg.Particles,
		galaxies:   cfg.Galaxies,
		halfExtent: cfg.Physics.HalfExtent,
		workers:    dynamo.Workers(cfg.Workers),
		palette:    palette,
	}
}

// BaseColor is the full-brightness hue of galaxy id.
func BaseColor(id, galaxies int) mgl32.Vec3 {
	h := hueScale * float64(id) / float64(galaxies)
	return mgl32.Vec3{
		float32(0.5 + 0.5*math.Cos(h)),
		float32(0.5 + 0.5*math.Cos(h+phaseG)),
		float32(0.5 + 0.5*math.Cos(h+phaseB)),
	}
}

// Brightness grows with speed from a floor of 0.2 and saturates at 1.
func Brightness(speed float32) float32 {
	return mgl32.Clamp(brightnessGain*speed+brightnessFloor, 0, 1)
}

// Shade recomputes frame from s. It reads the store only. Store and frame
// must both hold the particle count the shader was built for.
func (sh *Shader) Shade(s *particle.Store, frame *Frame) {
	if s.Len() != sh.particles || frame.Len() != sh.particles || len(frame.Colors) != sh.particles {
		panic(fmt.Sprintf("shader: built for %d particles, got store %d frame %d", sh.particles, s.Len(), frame.Len()))
	}
	pos, vel := s.Positions(), s.Velocities()
	inv := 1 / sh.halfExtent

	dynamo.ParallelFor(s.Len(), sh.workers, shadeChunk, func(start, end int) {
		for i := start; i < end; i++ {
			id := galaxy.ID(i, sh.particles, sh.galaxies)
			frame.Colors[i] = sh.palette[id].Mul(Brightness(vel[i].Len()))
			frame.Positions[i] = pos[i].Mul(inv).Add(mgl32.Vec2{1, 1}).Mul(0.5)
		}
	})
}
