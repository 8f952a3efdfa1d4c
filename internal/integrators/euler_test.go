package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/particle"
)

func newEuler(t testing.TB, phys config.PhysicsConfig, workers int) *Euler {
	t.Helper()
	backend, err := compute.New("cpu", workers)
	if err != nil {
		t.Fatal(err)
	}
	return NewEuler(phys, backend, workers)
}

func galaxyStore(particles, galaxies int, seed int64) *particle.Store {
	cfg := config.DefaultConfig()
	cfg.Particles = particles
	cfg.Galaxies = galaxies
	s := particle.New(particles)
	galaxy.NewInitializer(cfg, galaxy.NewRandSource(seed)).Initialize(s)
	return s
}

func TestBoundaryReflection(t *testing.T) {
	phys := config.DefaultConfig().Physics

	tests := []struct {
		name string
		pos  mgl32.Vec2
		vel  mgl32.Vec2
		axis int
	}{
		{"right wall", mgl32.Vec2{1.01, 0}, mgl32.Vec2{2, 0}, 0},
		{"left wall", mgl32.Vec2{-1.01, 0}, mgl32.Vec2{-2, 0}, 0},
		{"top wall", mgl32.Vec2{0, 1.001}, mgl32.Vec2{0, 3}, 1},
		{"bottom wall", mgl32.Vec2{0.2, -1.2}, mgl32.Vec2{0.1, -0.5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := particle.New(1)
			s.SetMass(0, 1)
			s.SetPosition(0, tt.pos)
			s.SetVelocity(0, tt.vel)

			newEuler(t, phys, 1).Step(s)

			x, v := s.Position(0), s.Velocity(0)
			if x[tt.axis] < -1 || x[tt.axis] > 1 {
				t.Errorf("position %v outside domain", x)
			}
			want := tt.vel[tt.axis] * phys.Damping * -0.5
			if math.Abs(float64(v[tt.axis]-want)) > 1e-6 {
				t.Errorf("v[%d] = %v, want %v", tt.axis, v[tt.axis], want)
			}
			other := 1 - tt.axis
			if math.Abs(float64(v[other]-tt.vel[other]*phys.Damping)) > 1e-6 {
				t.Errorf("v[%d] = %v changed by reflection", other, v[other])
			}
		})
	}
}

func TestSpeedClamp(t *testing.T) {
	phys := config.DefaultConfig().Physics
	s := particle.New(1)
	s.SetMass(0, 1)
	s.SetVelocity(0, mgl32.Vec2{30, 40})

	newEuler(t, phys, 1).Step(s)

	v := s.Velocity(0)
	if math.Abs(float64(v.Len()-phys.MaxSpeed)) > 1e-4 {
		t.Errorf("|v| = %v, want %v", v.Len(), phys.MaxSpeed)
	}
	if math.Abs(float64(v[0]/v[1])-0.75) > 1e-5 {
		t.Errorf("clamp changed direction: %v", v)
	}
}

func TestTwoBodyStep(t *testing.T) {
	phys := config.DefaultConfig().Physics
	s := particle.New(2)
	s.SetMass(0, 0.5)
	s.SetMass(1, 0.5)
	s.SetPosition(0, mgl32.Vec2{-0.1, 0})
	s.SetPosition(1, mgl32.Vec2{0.1, 0})

	newEuler(t, phys, 2).Step(s)

	v0, v1 := s.Velocity(0), s.Velocity(1)
	if v0[0] <= 0 || v1[0] >= 0 {
		t.Errorf("bodies not moving toward each other: %v %v", v0, v1)
	}
	if v0[0] != -v1[0] {
		t.Errorf("velocity magnitudes differ: %v vs %v", v0[0], v1[0])
	}
	if v0[1] != 0 || v1[1] != 0 || s.Position(0)[1] != 0 || s.Position(1)[1] != 0 {
		t.Errorf("y components not zero: %v %v", s.Position(0), s.Position(1))
	}
	if s.Position(0)[0] <= -0.1 || s.Position(1)[0] >= 0.1 {
		t.Errorf("positions did not move inward: %v %v", s.Position(0), s.Position(1))
	}
}

func TestStepIndependentOfWorkers(t *testing.T) {
	phys := config.DefaultConfig().Physics
	a := galaxyStore(600, 3, 9)
	b := a.Clone()

	ea, eb := newEuler(t, phys, 1), newEuler(t, phys, 8)
	for i := 0; i < 3; i++ {
		ea.Step(a)
		eb.Step(b)
	}

	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) || a.Velocity(i) != b.Velocity(i) {
			t.Fatalf("particle %d differs between 1 and 8 workers", i)
		}
	}
}

func TestStepUsesStartOfStepSnapshot(t *testing.T) {
	phys := config.DefaultConfig().Physics
	s := galaxyStore(200, 2, 4)
	snapshot := s.Clone()

	newEuler(t, phys, 4).Step(s)

	// recompute particle 199 by hand from the snapshot only
	acc := make([]mgl32.Vec2, snapshot.Len())
	compute.NewCPUBackend(1).Accelerations(snapshot.Positions(), snapshot.Masses(), phys.G, phys.Softening, acc)
	e := NewEuler(phys, compute.NewCPUBackend(1), 1)
	x, v := e.update(snapshot.Position(199), snapshot.Velocity(199), acc[199])

	if s.Position(199) != x || s.Velocity(199) != v {
		t.Errorf("step result %v/%v, snapshot result %v/%v", s.Position(199), s.Velocity(199), x, v)
	}
}

func BenchmarkStep2000(b *testing.B) {
	phys := config.DefaultConfig().Physics
	s := galaxyStore(2000, 5, 1)
	e := newEuler(b, phys, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(s)
	}
}
