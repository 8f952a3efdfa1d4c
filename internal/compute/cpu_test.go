package compute

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

func randomSystem(n int, seed int64) ([]mgl32.Vec2, []float32) {
	r := rand.New(rand.NewSource(seed))
	pos := make([]mgl32.Vec2, n)
	mass := make([]float32, n)
	for i := range pos {
		pos[i] = mgl32.Vec2{r.Float32()*2 - 1, r.Float32()*2 - 1}
		mass[i] = 1 / float32(n)
	}
	return pos, mass
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		b, err := New(name, 2)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, b.Name())
		}
	}

	if _, err := New("cuda", 0); !errors.Is(err, dynamo.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestTwoBodySymmetry(t *testing.T) {
	pos := []mgl32.Vec2{{-0.1, 0}, {0.1, 0}}
	mass := []float32{0.5, 0.5}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			b, _ := New(name, 1)
			acc := make([]mgl32.Vec2, 2)
			b.Accelerations(pos, mass, 1, 0.015, acc)

			if acc[0][0] <= 0 || acc[1][0] >= 0 {
				t.Errorf("bodies not attracted: %v", acc)
			}
			if acc[0][0] != -acc[1][0] {
				t.Errorf("a_x not equal and opposite: %v vs %v", acc[0][0], acc[1][0])
			}
			if acc[0][1] != 0 || acc[1][1] != 0 {
				t.Errorf("y acceleration not zero: %v", acc)
			}

			// G·m·d / (d² + eps²)^1.5 with d = 0.2
			want := 0.5 * 0.2 / math.Pow(0.04+0.015*0.015, 1.5)
			if math.Abs(float64(acc[0][0])-want) > 1e-3*want {
				t.Errorf("a_x = %v, want %v", acc[0][0], want)
			}
		})
	}
}

func TestSofteningBoundsCoincidentPair(t *testing.T) {
	pos := []mgl32.Vec2{{0.3, 0.3}, {0.3, 0.3}}
	mass := []float32{0.5, 0.5}
	acc := make([]mgl32.Vec2, 2)

	NewCPUBackend(1).Accelerations(pos, mass, 1, 0.015, acc)
	for i, a := range acc {
		if a != (mgl32.Vec2{}) {
			t.Errorf("acc[%d] = %v, want zero for coincident pair", i, a)
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	pos, mass := randomSystem(300, 11)
	cpu := make([]mgl32.Vec2, len(pos))
	serial := make([]mgl32.Vec2, len(pos))

	NewCPUBackend(4).Accelerations(pos, mass, 1, 0.015, cpu)
	NewSerialBackend().Accelerations(pos, mass, 1, 0.015, serial)

	for i := range pos {
		d := cpu[i].Sub(serial[i]).Len()
		scale := cpu[i].Len() + 1
		if d > 1e-3*scale {
			t.Fatalf("particle %d: cpu %v serial %v", i, cpu[i], serial[i])
		}
	}
}

func TestCPUIndependentOfWorkers(t *testing.T) {
	pos, mass := randomSystem(500, 5)
	one := make([]mgl32.Vec2, len(pos))
	many := make([]mgl32.Vec2, len(pos))

	NewCPUBackend(1).Accelerations(pos, mass, 1, 0.015, one)
	NewCPUBackend(7).Accelerations(pos, mass, 1, 0.015, many)

	for i := range pos {
		if one[i] != many[i] {
			t.Fatalf("particle %d differs: %v vs %v", i, one[i], many[i])
		}
	}
}

func TestSnapshotNotMutated(t *testing.T) {
	pos, mass := randomSystem(128, 2)
	before := append([]mgl32.Vec2(nil), pos...)
	acc := make([]mgl32.Vec2, len(pos))

	NewCPUBackend(4).Accelerations(pos, mass, 1, 0.015, acc)
	for i := range pos {
		if pos[i] != before[i] {
			t.Fatalf("position %d mutated", i)
		}
	}
}

func BenchmarkCPU1024(b *testing.B) {
	pos, mass := randomSystem(1024, 1)
	acc := make([]mgl32.Vec2, len(pos))
	backend := NewCPUBackend(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.Accelerations(pos, mass, 1, 0.015, acc)
	}
}

func BenchmarkSerial1024(b *testing.B) {
	pos, mass := randomSystem(1024, 1)
	acc := make([]mgl32.Vec2, len(pos))
	backend := NewSerialBackend()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.Accelerations(pos, mass, 1, 0.015, acc)
	}
}
