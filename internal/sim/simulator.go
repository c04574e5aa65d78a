package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	projector  Projector
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetProjector installs a post-step projection. Metrics and observers see
// the raw integrated state before projection.
func (s *Simulator) SetProjector(p Projector) { s.projector = p }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		u := s.control(x, t)

		newX := s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		t = float64(i+1) * cfg.Dt

		for _, m := range s.metrics {
			m.Observe(newX, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(newX, u, t)
		}

		if s.projector != nil {
			newX = s.projector.Project(newX)
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		x = newX
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) control(x State, t float64) Control {
	if s.controller == nil {
		return make(Control, s.dyn.ControlDim())
	}
	return s.controller.Compute(x, t)
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: got %d states, system has %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}
