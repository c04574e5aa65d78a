package rotation

import (
	"fmt"
	"math"
	"strings"
)

// AngleUnit selects how angles cross the package boundary. Values are always
// stored in radians.
type AngleUnit int

const (
	Radians AngleUnit = iota
	Degrees
)

func (u AngleUnit) String() string {
	switch u {
	case Radians:
		return "rad"
	case Degrees:
		return "deg"
	default:
		return fmt.Sprintf("AngleUnit(%d)", int(u))
	}
}

// ParseAngleUnit accepts "rad", "radians", "deg" and "degrees".
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rad", "radian", "radians":
		return Radians, nil
	case "deg", "degree", "degrees":
		return Degrees, nil
	}
	return Radians, fmt.Errorf("unknown angle unit: %q", s)
}

func (u AngleUnit) toRadians(a float64) float64 {
	if u == Degrees {
		return a * math.Pi / 180
	}
	return a
}

func (u AngleUnit) fromRadians(a float64) float64 {
	if u == Degrees {
		return a * 180 / math.Pi
	}
	return a
}
