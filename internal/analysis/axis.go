package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/attitude/internal/attitude"
)

type Axis string

const (
	Roll  Axis = "roll"
	Pitch Axis = "pitch"
	Yaw   Axis = "yaw"
	P     Axis = "p"
	Q     Axis = "q"
	R     Axis = "r"
)

var Axes = []Axis{Roll, Pitch, Yaw, P, Q, R}

func ParseAxis(s string) (Axis, error) {
	for _, a := range Axes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown axis %q (roll, pitch, yaw, p, q, r)", s)
}

// Channel extracts one axis of tr in degrees or deg/s.
func Channel(tr *attitude.Trajectory, a Axis) []float64 {
	out := make([]float64, tr.Len())
	for i := range out {
		var v float64
		switch a {
		case Roll:
			v = tr.Euler[i].Roll()
		case Pitch:
			v = tr.Euler[i].Pitch()
		case Yaw:
			v = tr.Euler[i].Yaw()
		case P:
			v = tr.Rates[i].X
		case Q:
			v = tr.Rates[i].Y
		case R:
			v = tr.Rates[i].Z
		}
		out[i] = v * 180 / math.Pi
	}
	return out
}
