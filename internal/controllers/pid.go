package controllers

// PID is a scalar PID loop on an externally supplied error signal.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// Update returns the loop output for err observed at time t. The first call,
// and any call that does not advance t, is proportional only.
func (p *PID) Update(err, t float64) float64 {
	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Kp * err
	}
	p.integral += err * dt
	derivative := (err - p.prevErr) / dt

	p.prevErr = err
	p.prevT = t
	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}
