package compute

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

// minChunk keeps goroutine overhead below the O(N) inner loop cost.
const minChunk = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	return &CPUBackend{workers: dynamo.Workers(workers)}
}

func (c *CPUBackend) Name() string { return "cpu" }

func (c *CPUBackend) Accelerations(pos []mgl32.Vec2, mass []float32, g, softening float32, acc []mgl32.Vec2) {
	n := len(mass)
	eps2 := softening * softening

	dynamo.ParallelFor(n, c.workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			xi := pos[i]
			var ax, ay float32

			for j := 0; j < n; j++ {
				if i == j {
					continue
				}

				rx := pos[j][0] - xi[0]
				ry := pos[j][1] - xi[1]
				r2 := rx*rx + ry*ry + eps2

				rInv := 1 / float32(math.Sqrt(float64(r2)))
				r3Inv := rInv * rInv * rInv

				f := g * mass[j] * r3Inv
				ax += f * rx
				ay += f * ry
			}

			acc[i] = mgl32.Vec2{ax, ay}
		}
	})
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }

func (s *SerialBackend) Accelerations(pos []mgl32.Vec2, mass []float32, g, softening float32, acc []mgl32.Vec2) {
	n := len(mass)
	eps2 := softening * softening

	for i := range acc[:n] {
		acc[i] = mgl32.Vec2{}
	}

	for i := 0; i < n; i++ {
		xi, yi := pos[i][0], pos[i][1]

		for j := i + 1; j < n; j++ {
			rx := pos[j][0] - xi
			ry := pos[j][1] - yi
			r2 := rx*rx + ry*ry + eps2

			rInv := 1 / float32(math.Sqrt(float64(r2)))
			r3Inv := rInv * rInv * rInv

			fij := g * mass[j] * r3Inv
			acc[i][0] += fij * rx
			acc[i][1] += fij * ry

			fji := g * mass[i] * r3Inv
			acc[j][0] -= fji * rx
			acc[j][1] -= fji * ry
		}
	}
}
