package metrics

import (
	"math"

	"github.com/san-kum/attitude/internal/sim"
)

// NormDrift tracks the largest |1 - ‖q‖| seen before projection.
type NormDrift struct {
	max float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{}
}

func (n *NormDrift) Name() string { return "norm_drift" }

func (n *NormDrift) Observe(x sim.State, u sim.Control, t float64) {
	if d := math.Abs(1 - x.Norm()); d > n.max {
		n.max = d
	}
}

func (n *NormDrift) Value() float64 { return n.max }
func (n *NormDrift) Reset()         { n.max = 0 }
