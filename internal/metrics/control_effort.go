package metrics

import (
	"math"

	"github.com/san-kum/attitude/internal/sim"
)

func rateNorm(u sim.Control) float64 {
	if len(u) != 3 {
		return 0
	}
	return math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
}

// RateEffort is the mean commanded body-rate magnitude per step.
type RateEffort struct {
	sum     float64
	samples int
}

func NewRateEffort() *RateEffort {
	return &RateEffort{}
}

func (c *RateEffort) Name() string { return "rate_effort" }

func (c *RateEffort) Observe(x sim.State, u sim.Control, t float64) {
	c.sum += rateNorm(u)
	c.samples++
}

func (c *RateEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *RateEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// AngularTravel accumulates ∫‖ω‖dt, the total angle swept by the body rate.
type AngularTravel struct {
	total float64
	lastT float64
}

func NewAngularTravel() *AngularTravel {
	return &AngularTravel{}
}

func (a *AngularTravel) Name() string { return "angular_travel" }

func (a *AngularTravel) Observe(x sim.State, u sim.Control, t float64) {
	a.total += rateNorm(u) * (t - a.lastT)
	a.lastT = t
}

func (a *AngularTravel) Value() float64 { return a.total }

func (a *AngularTravel) Reset() {
	a.total = 0
	a.lastT = 0
}
