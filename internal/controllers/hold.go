// Package controllers holds closed-loop body-rate commanders for the
// attitude kinematics.
package controllers

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

var ErrInvalidGains = errors.New("controllers: invalid hold gains")

type Gains struct {
	Kp, Ki, Kd float64
}

// HoldConfig describes an attitude hold. MaxRate bounds each body rate in
// rad/s; zero leaves the command unbounded.
type HoldConfig struct {
	Target  rotation.UnitQuaternion
	Gains   Gains
	MaxRate float64
}

func (c HoldConfig) Validate() error {
	g := c.Gains
	for _, v := range []float64{g.Kp, g.Ki, g.Kd, c.MaxRate} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidGains
		}
	}
	if g.Kp == 0 && g.Ki == 0 && g.Kd == 0 {
		return ErrInvalidGains
	}
	return nil
}

// AttitudeHold steers the body toward a fixed target attitude. The error is
// the rotation vector of q⁻¹ ⊗ q_target taken along the shorter arc, so it is
// expressed in body axes and maps directly to a (p, q, r) command.
type AttitudeHold struct {
	target  rotation.UnitQuaternion
	axes    [3]*PID
	maxRate float64
}

func NewAttitudeHold(cfg HoldConfig) *AttitudeHold {
	g := cfg.Gains
	return &AttitudeHold{
		target: cfg.Target,
		axes: [3]*PID{
			NewPID(g.Kp, g.Ki, g.Kd),
			NewPID(g.Kp, g.Ki, g.Kd),
			NewPID(g.Kp, g.Ki, g.Kd),
		},
		maxRate: cfg.MaxRate,
	}
}

func (h *AttitudeHold) Target() rotation.UnitQuaternion { return h.target }

// Error returns the body-frame rotation vector from q to the target.
func (h *AttitudeHold) Error(q rotation.UnitQuaternion) r3.Vector {
	qe := q.Inverse().QuatProduct(h.target)
	if qe.W() < 0 {
		qe = qe.Flipped()
	}
	v := qe.Imag()
	s := v.Norm()
	if s < 1e-12 {
		return v.Mul(2)
	}
	angle := 2 * math.Atan2(s, qe.W())
	return v.Mul(angle / s)
}

func (h *AttitudeHold) Compute(x sim.State, t float64) sim.Control {
	q, err := rotation.NewUnitQuaternion(x)
	if err != nil {
		return sim.Control{0, 0, 0}
	}
	e := h.Error(q)
	u := sim.Control{
		h.axes[0].Update(e.X, t),
		h.axes[1].Update(e.Y, t),
		h.axes[2].Update(e.Z, t),
	}
	if h.maxRate > 0 {
		for i := range u {
			u[i] = math.Max(-h.maxRate, math.Min(h.maxRate, u[i]))
		}
	}
	return u
}

func (h *AttitudeHold) Reset() {
	for _, p := range h.axes {
		p.Reset()
	}
}
