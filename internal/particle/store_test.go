package particle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStoreAccessors(t *testing.T) {
	s := New(3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	s.SetPosition(1, mgl32.Vec2{0.5, -0.25})
	s.SetVelocity(1, mgl32.Vec2{1, 2})
	s.SetMass(1, 0.3)

	if got := s.Position(1); got != (mgl32.Vec2{0.5, -0.25}) {
		t.Errorf("Position(1) = %v", got)
	}
	if got := s.Velocity(1); got != (mgl32.Vec2{1, 2}) {
		t.Errorf("Velocity(1) = %v", got)
	}
	if got := s.Mass(1); got != 0.3 {
		t.Errorf("Mass(1) = %v", got)
	}
	if s.Positions()[1] != s.Position(1) {
		t.Error("Positions() does not alias the store")
	}
}

func TestStoreOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	New(2).Position(2)
}

func TestStoreClone(t *testing.T) {
	s := New(2)
	s.SetPosition(0, mgl32.Vec2{1, 1})
	c := s.Clone()
	c.SetPosition(0, mgl32.Vec2{9, 9})
	if s.Position(0) != (mgl32.Vec2{1, 1}) {
		t.Error("Clone shares position storage")
	}
}

func TestKineticEnergy(t *testing.T) {
	s := New(2)
	s.SetMass(0, 0.5)
	s.SetMass(1, 0.5)
	s.SetVelocity(0, mgl32.Vec2{3, 4})
	s.SetVelocity(1, mgl32.Vec2{0, 0})

	if got := s.KineticEnergy(); math.Abs(got-6.25) > 1e-9 {
		t.Errorf("KineticEnergy() = %v, want 6.25", got)
	}
}

func TestMomentumAndCenterOfMass(t *testing.T) {
	s := New(2)
	s.SetMass(0, 1)
	s.SetMass(1, 1)
	s.SetPosition(0, mgl32.Vec2{-1, 0})
	s.SetPosition(1, mgl32.Vec2{1, 2})
	s.SetVelocity(0, mgl32.Vec2{1, 0})
	s.SetVelocity(1, mgl32.Vec2{-1, 0})

	px, py := s.Momentum()
	if px != 0 || py != 0 {
		t.Errorf("Momentum() = (%v, %v), want (0, 0)", px, py)
	}
	cx, cy := s.CenterOfMass()
	if cx != 0 || cy != 1 {
		t.Errorf("CenterOfMass() = (%v, %v), want (0, 1)", cx, cy)
	}
}

func TestFirstInvalid(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl32.Vec2
		vel  mgl32.Vec2
		want int
	}{
		{"finite", mgl32.Vec2{0.1, 0.2}, mgl32.Vec2{1, 1}, -1},
		{"NaN position", mgl32.Vec2{float32(math.NaN()), 0}, mgl32.Vec2{}, 1},
		{"Inf velocity", mgl32.Vec2{}, mgl32.Vec2{0, float32(math.Inf(1))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(3)
			s.SetPosition(1, tt.pos)
			s.SetVelocity(1, tt.vel)
			if got := s.FirstInvalid(); got != tt.want {
				t.Errorf("FirstInvalid() = %d, want %d", got, tt.want)
			}
		})
	}
}
