package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

func state(q rotation.UnitQuaternion) sim.State {
	v := q.AsVector()
	return sim.State{v[0], v[1], v[2], v[3]}
}

func TestNormDrift(t *testing.T) {
	m := NewNormDrift()

	m.Observe(sim.State{1, 0, 0, 0}, nil, 0.1)
	if m.Value() != 0 {
		t.Errorf("unit state drift = %v, want 0", m.Value())
	}

	m.Observe(sim.State{1.5, 0, 0, 0}, nil, 0.2)
	m.Observe(sim.State{0.9, 0, 0, 0}, nil, 0.3)
	if math.Abs(m.Value()-0.5) > 1e-15 {
		t.Errorf("drift = %v, want 0.5", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestRateEffort(t *testing.T) {
	m := NewRateEffort()
	if m.Value() != 0 {
		t.Error("expected zero effort before samples")
	}

	m.Observe(nil, sim.Control{3, 4, 0}, 0.1)
	m.Observe(nil, sim.Control{0, 0, 1}, 0.2)
	if math.Abs(m.Value()-3) > 1e-15 {
		t.Errorf("effort = %v, want 3", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestAngularTravel(t *testing.T) {
	m := NewAngularTravel()
	for i := 1; i <= 10; i++ {
		m.Observe(nil, sim.Control{0, 0, 0.5}, float64(i)*0.1)
	}
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("travel = %v, want 0.5", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero travel after reset")
	}
}

func TestEnvelope(t *testing.T) {
	limit := 30 * math.Pi / 180
	m := NewEnvelope(limit, limit)
	if m.Value() != 1 {
		t.Errorf("empty envelope = %v, want 1", m.Value())
	}

	tests := []rotation.UnitQuaternion{
		rotation.QuaternionFromEulerAngles(10, 0, 170, rotation.Degrees),
		rotation.QuaternionFromEulerAngles(45, 0, 0, rotation.Degrees),
		rotation.QuaternionFromEulerAngles(0, -40, 0, rotation.Degrees),
		rotation.DefaultQuaternion(),
	}
	for _, q := range tests {
		m.Observe(state(q), nil, 0)
	}
	if m.Value() != 0.5 {
		t.Errorf("envelope = %v, want 0.5", m.Value())
	}

	yawOnly := NewEnvelope(0, 0)
	yawOnly.Observe(state(rotation.QuaternionFromEulerAngles(80, 80, 0, rotation.Degrees)), nil, 0)
	if yawOnly.Value() != 1 {
		t.Error("zero limits should disable the check")
	}
}

func TestTrackingError(t *testing.T) {
	target := rotation.QuaternionFromEulerAngles(0, 0, 90, rotation.Degrees)
	m := NewTrackingError(target)
	if m.Name() != "tracking_error" {
		t.Errorf("name = %s", m.Name())
	}

	m.Observe(sim.State{1, 0, 0, 0}, nil, 0.5)
	m.Observe(state(target), nil, 1.0)
	if math.Abs(m.Value()-math.Pi/4) > 1e-7 {
		t.Errorf("tracking error = %v, want π/4", m.Value())
	}

	m.Observe(sim.State{1}, nil, 2.0)
	if math.Abs(m.Value()-math.Pi/4) > 1e-7 {
		t.Errorf("malformed state should be ignored, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("after reset = %v", m.Value())
	}
}

func TestAngleBetween(t *testing.T) {
	a := rotation.QuaternionFromEulerAngles(30, 0, 0, rotation.Degrees)
	if got := AngleBetween(a, a.Flipped()); got > 1e-7 {
		t.Errorf("antipodal quaternions should be 0 apart, got %v", got)
	}
	if got := AngleBetween(rotation.DefaultQuaternion(), a); math.Abs(got-math.Pi/6) > 1e-12 {
		t.Errorf("angle = %v, want π/6", got)
	}
}
