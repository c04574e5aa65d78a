// Package attitude propagates an orientation quaternion under a body-rate
// schedule using the sim core.
package attitude

import (
	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

// Kinematics is q_dot = ½ q ⊗ [0, ω] with state (w, x, y, z) and control
// ω = (p, q, r) in rad/s, body frame.
type Kinematics struct{}

func NewKinematics() *Kinematics {
	return &Kinematics{}
}

func (k *Kinematics) Derive(x sim.State, u sim.Control, t float64) sim.State {
	var omega r3.Vector
	if len(u) == 3 {
		omega = r3.Vector{X: u[0], Y: u[1], Z: u[2]}
	}
	dq := rotation.QDotRaw([4]float64{x[0], x[1], x[2], x[3]}, omega)
	return sim.State{dq[0], dq[1], dq[2], dq[3]}
}

func (k *Kinematics) StateDim() int   { return 4 }
func (k *Kinematics) ControlDim() int { return 3 }

// Renormalizer projects an integrated state back onto the unit sphere.
type Renormalizer struct{}

func (Renormalizer) Project(x sim.State) sim.State {
	q, err := rotation.NewUnitQuaternion(x)
	if err != nil {
		return x
	}
	v := q.AsVector()
	return sim.State{v[0], v[1], v[2], v[3]}
}

func StateOf(q rotation.UnitQuaternion) sim.State {
	v := q.AsVector()
	return sim.State{v[0], v[1], v[2], v[3]}
}

// QuaternionOf normalizes a raw state. Its second result is the raw norm.
func QuaternionOf(x sim.State) (rotation.UnitQuaternion, float64) {
	q, _ := rotation.NewUnitQuaternion(x)
	return q, x.Norm()
}
