package integrators

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/particle"
)

var _ = Describe("Euler", func() {
	var (
		phys  config.PhysicsConfig
		euler *Euler
	)

	BeforeEach(func() {
		phys = config.DefaultConfig().Physics
	})

	JustBeforeEach(func() {
		euler = NewEuler(phys, compute.NewCPUBackend(2), 2)
	})

	Context("without gravity", func() {
		BeforeEach(func() {
			phys.G = 0
		})

		It("never increases kinetic energy", func() {
			s := galaxyStore(400, 4, 21)
			// push a slice of particles into the walls
			for i := 0; i < 40; i++ {
				s.SetVelocity(i, mgl32.Vec2{8, -6})
			}

			prev := s.KineticEnergy()
			for step := 0; step < 200; step++ {
				euler.Step(s)
				ke := s.KineticEnergy()
				Expect(ke).To(BeNumerically("<=", prev))
				prev = ke
			}
		})

		It("keeps every particle inside the domain", func() {
			s := galaxyStore(400, 4, 22)
			for i := 0; i < s.Len(); i++ {
				s.SetVelocity(i, s.Velocity(i).Mul(6))
			}
			for step := 0; step < 300; step++ {
				euler.Step(s)
			}
			for i := 0; i < s.Len(); i++ {
				p := s.Position(i)
				Expect(p[0]).To(BeNumerically(">=", -phys.HalfExtent))
				Expect(p[0]).To(BeNumerically("<=", phys.HalfExtent))
				Expect(p[1]).To(BeNumerically(">=", -phys.HalfExtent))
				Expect(p[1]).To(BeNumerically("<=", phys.HalfExtent))
			}
		})
	})

	Context("with gravity", func() {
		It("leaves mass untouched", func() {
			s := galaxyStore(250, 5, 3)
			for step := 0; step < 10; step++ {
				euler.Step(s)
			}
			for i := 0; i < s.Len(); i++ {
				Expect(s.Mass(i)).To(Equal(float32(1) / 250))
			}
		})

		It("pulls a resting pair together along the x axis", func() {
			s := particle.New(2)
			s.SetMass(0, 0.5)
			s.SetMass(1, 0.5)
			s.SetPosition(0, mgl32.Vec2{-0.1, 0})
			s.SetPosition(1, mgl32.Vec2{0.1, 0})

			euler.Step(s)

			Expect(s.Velocity(0)[0]).To(BeNumerically(">", 0))
			Expect(s.Velocity(1)[0]).To(Equal(-s.Velocity(0)[0]))
			Expect(s.Velocity(0)[1]).To(BeZero())
			Expect(s.Velocity(1)[1]).To(BeZero())
		})

		It("conserves momentum away from the walls", func() {
			s := galaxyStore(300, 3, 8)
			px0, py0 := s.Momentum()
			euler.Step(s)
			px1, py1 := s.Momentum()

			// damping scales momentum by exactly Damping per step
			Expect(px1).To(BeNumerically("~", px0*float64(phys.Damping), 1e-4))
			Expect(py1).To(BeNumerically("~", py0*float64(phys.Damping), 1e-4))
		})
	})

	Context("with a coincident pair", func() {
		It("produces a finite state thanks to softening", func() {
			s := particle.New(2)
			s.SetMass(0, 0.5)
			s.SetMass(1, 0.5)
			s.SetPosition(0, mgl32.Vec2{0.2, 0.2})
			s.SetPosition(1, mgl32.Vec2{0.2, 0.2})

			euler.Step(s)
			Expect(s.FirstInvalid()).To(Equal(-1))
		})
	})
})
