package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

type testDynamics struct{}

func (t *testDynamics) Derive(x State, u Control, time float64) State {
	return State{-x[0]}
}

func (t *testDynamics) StateDim() int   { return 1 }
func (t *testDynamics) ControlDim() int { return 0 }

type testIntegrator struct{}

func (t *testIntegrator) Step(dyn System, x State, u Control, time float64, dt float64) State {
	dx := dyn.Derive(x, u, time)
	return State{x[0] + dt*dx[0]}
}

type testController struct{}

func (t *testController) Compute(x State, time float64) Control {
	return Control{}
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	x0 := State{1.0}
	result, err := sim.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	if math.Abs(result.Times[10]-1.0) > 1e-12 {
		t.Errorf("expected final time 1.0, got %v", result.Times[10])
	}

	finalState := result.States[len(result.States)-1][0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}

	if x0[0] != 1.0 {
		t.Error("Run mutated the initial state")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	tests := []struct {
		name string
		x0   State
		cfg  Config
		want error
	}{
		{"zero dt", State{1.0}, Config{Dt: 0, Duration: 1.0}, ErrInvalidConfig},
		{"negative dt", State{1.0}, Config{Dt: -0.1, Duration: 1.0}, ErrInvalidConfig},
		{"zero duration", State{1.0}, Config{Dt: 0.1, Duration: 0}, ErrInvalidConfig},
		{"negative duration", State{1.0}, Config{Dt: 0.1, Duration: -1.0}, ErrInvalidConfig},
		{"wrong state size", State{1.0, 2.0}, Config{Dt: 0.1, Duration: 1.0}, ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x State, u Control, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, &testController{})

	metric := &testMetric{}
	sim.AddMetric(metric)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

type clampProjector struct{ calls int }

func (c *clampProjector) Project(x State) State {
	c.calls++
	return State{math.Max(x[0], 0.5)}
}

func TestSimulatorProjector(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, nil)
	proj := &clampProjector{}
	sim.SetProjector(proj)

	metric := &minMetric{min: math.Inf(1)}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 2.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if proj.calls != 20 {
		t.Errorf("expected 20 projections, got %d", proj.calls)
	}
	if got := result.States[len(result.States)-1][0]; got != 0.5 {
		t.Errorf("expected projected final state 0.5, got %v", got)
	}
	if result.Metrics["min"] >= 0.5 {
		t.Errorf("metric should see raw states below the clamp, min %v", result.Metrics["min"])
	}
}

type minMetric struct{ min float64 }

func (m *minMetric) Name() string { return "min" }
func (m *minMetric) Observe(x State, u Control, time float64) {
	m.min = math.Min(m.min, x[0])
}
func (m *minMetric) Value() float64 { return m.min }
func (m *minMetric) Reset()         { m.min = math.Inf(1) }

func TestSimulatorInvalidState(t *testing.T) {
	sim := New(&testDynamics{}, &nanIntegrator{}, nil)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	var simErr SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 0 {
		t.Errorf("expected SimError at step 0, got %v", result.Errors[0])
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps taken, got %d", result.StepsTaken)
	}
}

type nanIntegrator struct{}

func (n *nanIntegrator) Step(dyn System, x State, u Control, t, dt float64) State {
	return State{math.NaN()}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(&testDynamics{}, &testIntegrator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}
