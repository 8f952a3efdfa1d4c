package integrators

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/particle"
)

const updateChunk = 256

// Euler is a damped semi-implicit Euler stepper: velocity first from the
// snapshot accelerations, then position from the new velocity.
type Euler struct {
	phys    config.PhysicsConfig
	backend compute.Backend
	workers int
	acc     []mgl32.Vec2
}

func NewEuler(phys config.PhysicsConfig, backend compute.Backend, workers int) *Euler {
	return &Euler{
		phys:    phys,
		backend: backend,
		workers: dynamo.Workers(workers),
	}
}

func (e *Euler) Backend() compute.Backend { return e.backend }

func (e *Euler) ensureScratch(n int) {
	if len(e.acc) != n {
		e.acc = make([]mgl32.Vec2, n)
	}
}

// Step advances every particle by one Dt. All accelerations are computed
// from the positions at entry before any particle is written.
func (e *Euler) Step(s *particle.Store) {
	n := s.Len()
	e.ensureScratch(n)

	e.backend.Accelerations(s.Positions(), s.Masses(), e.phys.G, e.phys.Softening, e.acc)

	pos, vel := s.Positions(), s.Velocities()
	dynamo.ParallelFor(n, e.workers, updateChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pos[i], vel[i] = e.update(pos[i], vel[i], e.acc[i])
		}
	})
}

func (e *Euler) update(x, v, a mgl32.Vec2) (mgl32.Vec2, mgl32.Vec2) {
	p := e.phys

	v = v.Add(a.Mul(p.Dt)).Mul(p.Damping)

	if speed := v.Len(); speed > p.MaxSpeed {
		v = v.Mul(p.MaxSpeed / speed)
	}

	x = x.Add(v.Mul(p.Dt))

	for k := 0; k < 2; k++ {
		if x[k] < -p.HalfExtent || x[k] > p.HalfExtent {
			v[k] *= -p.Restitution
			x[k] = mgl32.Clamp(x[k], -p.HalfExtent, p.HalfExtent)
		}
	}

	return x, v
}
