package metrics

import (
	"math"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

// TrackingError accumulates ∫θ dt, where θ is the rotation angle between
// the state and a fixed target attitude.
type TrackingError struct {
	target rotation.UnitQuaternion
	total  float64
	lastT  float64
}

func NewTrackingError(target rotation.UnitQuaternion) *TrackingError {
	return &TrackingError{target: target}
}

func (e *TrackingError) Name() string { return "tracking_error" }

func (e *TrackingError) Observe(x sim.State, u sim.Control, t float64) {
	if len(x) != 4 {
		return
	}
	e.total += AngleBetween(rotation.QuaternionFromComponents(x[0], x[1], x[2], x[3]), e.target) * (t - e.lastT)
	e.lastT = t
}

func (e *TrackingError) Value() float64 { return e.total }

func (e *TrackingError) Reset() {
	e.total = 0
	e.lastT = 0
}

// AngleBetween is the smallest rotation angle taking a to b, in [0, π].
func AngleBetween(a, b rotation.UnitQuaternion) float64 {
	va, vb := a.AsVector(), b.AsVector()
	dot := math.Abs(va[0]*vb[0] + va[1]*vb[1] + va[2]*vb[2] + va[3]*vb[3])
	return 2 * math.Acos(math.Min(dot, 1))
}
