package sim

import (
	"github.com/san-kum/galaxysim/internal/particle"
	"github.com/san-kum/galaxysim/internal/shader"
)

type Integrator interface {
	Step(s *particle.Store)
}

type Metric interface {
	Name() string
	Observe(s *particle.Store, t float64)
	Value() float64
	Reset()
}

// Observer receives every shaded frame. The frame buffer is reused; copy
// it to keep it past the call.
type Observer interface {
	OnFrame(frame *shader.Frame, info FrameInfo)
}

type FrameInfo struct {
	Frame int
	Steps int
	Time  float64
}

type Result struct {
	Seed    int64
	Frames  int
	Steps   int
	Time    float64
	Metrics map[string]float64
}
