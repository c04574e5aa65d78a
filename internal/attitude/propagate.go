package attitude

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/controllers"
	"github.com/san-kum/attitude/internal/integrators"
	"github.com/san-kum/attitude/internal/metrics"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

var (
	ErrDiverged = errors.New("attitude: propagation produced an invalid state")

	// ErrConflictingCommand is returned when a scenario sets both a rate
	// schedule and an attitude hold.
	ErrConflictingCommand = errors.New("attitude: scenario has both rates and hold")
)

type Scenario struct {
	Name        string
	Initial     rotation.UnitQuaternion
	Rates       *RateProfile
	Hold        *controllers.HoldConfig
	Integrator  string
	Dt          float64
	Duration    float64
	Renormalize bool
	Envelope    *Envelope
	Observers   []sim.Observer
}

// Envelope bounds |roll| and |pitch| in radians for the envelope metric.
type Envelope struct {
	Roll, Pitch float64
}

// Trajectory is a propagated attitude history. Quaternions are normalized;
// Norms keeps the norm of the state as stored by the simulator.
type Trajectory struct {
	Times       []float64
	Quaternions []rotation.UnitQuaternion
	Euler       []rotation.EulerAngles
	Rates       []r3.Vector
	Norms       []float64
	Metrics     map[string]float64
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Final returns the last attitude, or the identity for an empty trajectory.
func (tr *Trajectory) Final() rotation.UnitQuaternion {
	if len(tr.Quaternions) == 0 {
		return rotation.DefaultQuaternion()
	}
	return tr.Quaternions[len(tr.Quaternions)-1]
}

type stepLogger struct {
	every int
	n     int
}

func (l *stepLogger) OnStep(x sim.State, u sim.Control, t float64) {
	l.n++
	if l.n%l.every == 0 {
		klog.V(5).InfoS("attitude step", "t", t, "q", []float64(x), "omega", []float64(u))
	}
}

// Propagate integrates the scenario's kinematics from its initial attitude.
// A partial trajectory is returned alongside ErrDiverged.
func Propagate(ctx context.Context, sc Scenario) (*Trajectory, error) {
	integ, err := integrators.New(sc.Integrator)
	if err != nil {
		return nil, err
	}
	ctrl, err := commander(sc)
	if err != nil {
		return nil, err
	}

	s := sim.New(NewKinematics(), integ, ctrl)
	if sc.Renormalize {
		s.SetProjector(Renormalizer{})
	}
	s.AddMetric(metrics.NewNormDrift())
	s.AddMetric(metrics.NewAngularTravel())
	s.AddMetric(metrics.NewRateEffort())
	if sc.Envelope != nil {
		s.AddMetric(metrics.NewEnvelope(sc.Envelope.Roll, sc.Envelope.Pitch))
	}
	if sc.Hold != nil {
		s.AddMetric(metrics.NewTrackingError(sc.Hold.Target))
	}
	s.AddObserver(&stepLogger{every: 100})
	for _, o := range sc.Observers {
		s.AddObserver(o)
	}

	klog.V(2).InfoS("propagating attitude",
		"scenario", sc.Name, "integrator", sc.Integrator,
		"dt", sc.Dt, "duration", sc.Duration, "renormalize", sc.Renormalize)

	cfg := sim.Config{Dt: sc.Dt, Duration: sc.Duration, ValidateState: true}
	result, err := s.Run(ctx, StateOf(sc.Initial), cfg)
	if result == nil {
		return nil, fmt.Errorf("propagate %q: %w", sc.Name, err)
	}

	tr := fromResult(result, ctrl)
	if err != nil {
		return tr, fmt.Errorf("propagate %q: %w", sc.Name, err)
	}
	if len(result.Errors) > 0 {
		klog.ErrorS(result.Errors[0], "propagation stopped", "scenario", sc.Name, "steps", result.StepsTaken)
		return tr, fmt.Errorf("%w: %v", ErrDiverged, result.Errors[0])
	}

	klog.V(2).InfoS("propagation done", "scenario", sc.Name, "steps", result.StepsTaken,
		"norm_drift", tr.Metrics["norm_drift"])
	return tr, nil
}

func commander(sc Scenario) (sim.Controller, error) {
	switch {
	case sc.Hold != nil && sc.Rates != nil:
		return nil, ErrConflictingCommand
	case sc.Hold != nil:
		if err := sc.Hold.Validate(); err != nil {
			return nil, fmt.Errorf("propagate %q: %w", sc.Name, err)
		}
		return controllers.NewAttitudeHold(*sc.Hold), nil
	case sc.Rates != nil:
		return sc.Rates, nil
	}
	return ConstantRate(r3.Vector{}), nil
}

// fromResult rebuilds the rate column from the schedule when there is one.
// Closed-loop commands are taken from the recorded controls, with the last
// command repeated on the final sample.
func fromResult(result *sim.Result, ctrl sim.Controller) *Trajectory {
	profile, _ := ctrl.(*RateProfile)
	n := len(result.States)
	tr := &Trajectory{
		Times:       make([]float64, n),
		Quaternions: make([]rotation.UnitQuaternion, n),
		Euler:       make([]rotation.EulerAngles, n),
		Rates:       make([]r3.Vector, n),
		Norms:       make([]float64, n),
		Metrics:     result.Metrics,
	}
	for i, x := range result.States {
		q, norm := QuaternionOf(x)
		tr.Times[i] = result.Times[i]
		tr.Quaternions[i] = q
		tr.Euler[i] = q.AsEuler()
		tr.Rates[i] = sampleRate(result, profile, i)
		tr.Norms[i] = norm
	}
	return tr
}

func sampleRate(result *sim.Result, profile *RateProfile, i int) r3.Vector {
	if profile != nil {
		return profile.Rate(result.Times[i])
	}
	if len(result.Controls) == 0 {
		return r3.Vector{}
	}
	u := result.Controls[min(i, len(result.Controls)-1)]
	if len(u) != 3 {
		return r3.Vector{}
	}
	return r3.Vector{X: u[0], Y: u[1], Z: u[2]}
}
