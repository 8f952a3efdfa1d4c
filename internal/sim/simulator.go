package sim

import (
	"context"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/integrators"
	"github.com/san-kum/galaxysim/internal/particle"
	"github.com/san-kum/galaxysim/internal/shader"
)

// Simulator owns the particle store and drives step/shade. It is not safe
// for concurrent use.
type Simulator struct {
	cfg        *config.Config
	store      *particle.Store
	integrator Integrator
	shader     *shader.Shader
	frame      *shader.Frame
	metrics    []Metric
	observers  []Observer
	info       FrameInfo
	backend    string
	compute    compute.Backend
}

type Option func(*options)

type options struct {
	src        galaxy.Source
	integrator Integrator
}

// WithSource replaces the seeded generator used by the initializer.
func WithSource(src galaxy.Source) Option {
	return func(o *options) { o.src = src }
}

func WithIntegrator(integ Integrator) Option {
	return func(o *options) { o.integrator = integ }
}

// New validates cfg, populates the store once and shades the initial frame.
func New(cfg *config.Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = galaxy.NewRandSource(cfg.Seed)
	}

	backendName := "custom"
	var kernel compute.Backend
	if o.integrator == nil {
		backend, err := compute.New(cfg.Backend, cfg.Workers)
		if err != nil {
			return nil, err
		}
		o.integrator = integrators.NewEuler(cfg.Physics, backend, cfg.Workers)
		backendName = backend.Name()
		kernel = backend
	}

	store := particle.New(cfg.Particles)
	galaxy.NewInitializer(cfg, o.src).Initialize(store)

	s := &Simulator{
		cfg:        cfg,
		store:      store,
		integrator: o.integrator,
		shader:     shader.New(cfg),
		frame:      shader.NewFrame(cfg.Particles),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		backend:    backendName,
		compute:    kernel,
	}
	s.shader.Shade(s.store, s.frame)
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() *config.Config { return s.cfg }
func (s *Simulator) Store() *particle.Store { return s.store }
func (s *Simulator) Frame() *shader.Frame   { return s.frame }
func (s *Simulator) Info() FrameInfo        { return s.info }
func (s *Simulator) BackendName() string    { return s.backend }

// Backend is the force kernel, or nil when WithIntegrator replaced it.
func (s *Simulator) Backend() compute.Backend { return s.compute }

// Step runs one sub-step. With ValidateState set, a NaN or Inf anywhere in
// the store fails the step; otherwise such values propagate.
func (s *Simulator) Step() error {
	s.integrator.Step(s.store)
	s.info.Steps++
	s.info.Time += float64(s.cfg.Physics.Dt)

	if s.cfg.ValidateState {
		if i := s.store.FirstInvalid(); i >= 0 {
			return &dynamo.SimulationError{
				Frame:    s.info.Frame,
				Step:     s.info.Steps,
				Particle: i,
				Wrapped:  dynamo.ErrInvalidState,
			}
		}
	}
	return nil
}

// Advance runs StepsPerFrame sub-steps, shades the result and notifies
// metrics and observers.
func (s *Simulator) Advance() (*shader.Frame, error) {
	for k := 0; k < s.cfg.StepsPerFrame; k++ {
		if err := s.Step(); err != nil {
			return nil, err
		}
	}
	s.info.Frame++

	s.shader.Shade(s.store, s.frame)
	s.observe()
	for _, obs := range s.observers {
		obs.OnFrame(s.frame, s.info)
	}
	return s.frame, nil
}

func (s *Simulator) observe() {
	for _, m := range s.metrics {
		m.Observe(s.store, s.info.Time)
	}
}

// Run advances frames frames, or until ctx is done when frames <= 0.
// Cancellation is checked between frames only.
func (s *Simulator) Run(ctx context.Context, frames int) (*Result, error) {
	for _, m := range s.metrics {
		m.Reset()
	}
	s.observe()

	err := s.RunWithCallback(ctx, frames, func(*shader.Frame, FrameInfo) bool { return true })
	return s.result(), err
}

// RunWithCallback calls fn after every frame and stops when it returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, frames int, fn func(*shader.Frame, FrameInfo) bool) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := s.Advance()
		if err != nil {
			return err
		}
		if !fn(frame, s.info) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) result() *Result {
	r := &Result{
		Seed:    s.cfg.Seed,
		Frames:  s.info.Frame,
		Steps:   s.info.Steps,
		Time:    s.info.Time,
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}
