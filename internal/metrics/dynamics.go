package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/particle"
)

type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(s *particle.Store, t float64) {
	for _, v := range s.Velocities() {
		p.max = math.Max(p.max, float64(v.Len()))
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }
func (p *PeakSpeed) Reset()         { p.max = 0 }

// Momentum reports the magnitude of total linear momentum.
type Momentum struct {
	px, py float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(s *particle.Store, t float64) {
	m.px, m.py = s.Momentum()
}

func (m *Momentum) Value() float64 { return math.Hypot(m.px, m.py) }
func (m *Momentum) Reset()         { m.px, m.py = 0, 0 }

// Dispersion is the mass-weighted RMS distance from the center of mass;
// it shrinks as galaxies merge.
type Dispersion struct {
	rms float64
}

func NewDispersion() *Dispersion { return &Dispersion{} }

func (d *Dispersion) Name() string { return "dispersion" }

func (d *Dispersion) Observe(s *particle.Store, t float64) {
	cx, cy := s.CenterOfMass()
	sum, total := 0.0, 0.0
	for i, p := range s.Positions() {
		m := float64(s.Mass(i))
		dx, dy := float64(p[0])-cx, float64(p[1])-cy
		sum += m * (dx*dx + dy*dy)
		total += m
	}
	if total == 0 {
		d.rms = 0
		return
	}
	d.rms = math.Sqrt(sum / total)
}

func (d *Dispersion) Value() float64 { return d.rms }
func (d *Dispersion) Reset()         { d.rms = 0 }
