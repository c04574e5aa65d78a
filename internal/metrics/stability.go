package metrics

import (
	"math"

	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
)

// Envelope is the fraction of samples with |roll| and |pitch| inside the
// limits (radians). A zero limit disables that axis.
type Envelope struct {
	rollLimit  float64
	pitchLimit float64
	violations int
	samples    int
}

func NewEnvelope(rollLimit, pitchLimit float64) *Envelope {
	return &Envelope{rollLimit: rollLimit, pitchLimit: pitchLimit}
}

func (e *Envelope) Name() string { return "envelope" }

func (e *Envelope) Observe(x sim.State, u sim.Control, t float64) {
	if len(x) != 4 {
		return
	}
	e.samples++
	q := rotation.QuaternionFromComponents(x[0], x[1], x[2], x[3])
	eul := q.AsEuler()
	if (e.rollLimit > 0 && math.Abs(eul.Roll()) > e.rollLimit) ||
		(e.pitchLimit > 0 && math.Abs(eul.Pitch()) > e.pitchLimit) {
		e.violations++
	}
}

func (e *Envelope) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Envelope) Reset() {
	e.violations = 0
	e.samples = 0
}
