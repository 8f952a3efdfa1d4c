package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/particle"
)

// KineticEnergy reports the latest total kinetic energy and keeps the
// per-observation history for plotting.
type KineticEnergy struct {
	name    string
	history []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *particle.Store, t float64) {
	k.history = append(k.history, s.KineticEnergy())
}

func (k *KineticEnergy) Value() float64 {
	if len(k.history) == 0 {
		return 0
	}
	return k.history[len(k.history)-1]
}

func (k *KineticEnergy) History() []float64 { return k.history }

func (k *KineticEnergy) Reset() { k.history = k.history[:0] }

// EnergyLoss is the fraction of the first observed kinetic energy lost by
// the latest observation. Negative when gravity has heated the system.
type EnergyLoss struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s *particle.Store, t float64) {
	ke := s.KineticEnergy()
	if e.samples == 0 {
		e.initial = ke
	}
	e.current = ke
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return (e.initial - e.current) / math.Abs(e.initial)
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
