// Package particle holds the flat per-particle arrays every kernel reads
// and writes. Index violations are programming errors and panic.
package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Store struct {
	pos  []mgl32.Vec2
	vel  []mgl32.Vec2
	mass []float32
}

func New(n int) *Store {
	return &Store{
		pos:  make([]mgl32.Vec2, n),
		vel:  make([]mgl32.Vec2, n),
		mass: make([]float32, n),
	}
}

func (s *Store) Len() int { return len(s.mass) }

func (s *Store) Position(i int) mgl32.Vec2 { return s.pos[i] }
func (s *Store) Velocity(i int) mgl32.Vec2 { return s.vel[i] }
func (s *Store) Mass(i int) float32        { return s.mass[i] }

func (s *Store) SetPosition(i int, p mgl32.Vec2) { s.pos[i] = p }
func (s *Store) SetVelocity(i int, v mgl32.Vec2) { s.vel[i] = v }
func (s *Store) SetMass(i int, m float32)        { s.mass[i] = m }

// Positions, Velocities and Masses expose the backing arrays to kernels.
// Callers must not retain them across a resize.
func (s *Store) Positions() []mgl32.Vec2  { return s.pos }
func (s *Store) Velocities() []mgl32.Vec2 { return s.vel }
func (s *Store) Masses() []float32        { return s.mass }

func (s *Store) Clone() *Store {
	c := New(s.Len())
	copy(c.pos, s.pos)
	copy(c.vel, s.vel)
	copy(c.mass, s.mass)
	return c
}

// KineticEnergy sums 0.5·m·|v|² in float64.
func (s *Store) KineticEnergy() float64 {
	ke := 0.0
	for i, v := range s.vel {
		ke += 0.5 * float64(s.mass[i]) * float64(v.Dot(v))
	}
	return ke
}

func (s *Store) Momentum() (px, py float64) {
	for i, v := range s.vel {
		m := float64(s.mass[i])
		px += m * float64(v[0])
		py += m * float64(v[1])
	}
	return
}

func (s *Store) CenterOfMass() (cx, cy float64) {
	total := 0.0
	for i, p := range s.pos {
		m := float64(s.mass[i])
		cx += m * float64(p[0])
		cy += m * float64(p[1])
		total += m
	}
	if total == 0 {
		return 0, 0
	}
	return cx / total, cy / total
}

// FirstInvalid returns the index of the first particle whose position or
// velocity holds a NaN or Inf, or -1.
func (s *Store) FirstInvalid() int {
	for i := range s.pos {
		if !finite(s.pos[i]) || !finite(s.vel[i]) {
			return i
		}
	}
	return -1
}

func finite(v mgl32.Vec2) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
