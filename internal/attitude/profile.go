package attitude

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/sim"
)

var ErrEmptyProfile = errors.New("attitude: rate profile has no segments")

// Segment holds Rate from Start until the next segment begins.
type Segment struct {
	Start float64
	Rate  r3.Vector
}

// RateProfile is a piecewise-constant body-rate schedule.
type RateProfile struct {
	segments []Segment
}

func ConstantRate(rate r3.Vector) *RateProfile {
	return &RateProfile{segments: []Segment{{Start: 0, Rate: rate}}}
}

// NewRateProfile sorts segments by start time. Before the first start the
// rate is zero.
func NewRateProfile(segments []Segment) (*RateProfile, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyProfile
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	for i := 1; i < len(segs); i++ {
		if segs[i].Start == segs[i-1].Start {
			return nil, fmt.Errorf("attitude: duplicate segment start %g", segs[i].Start)
		}
	}
	return &RateProfile{segments: segs}, nil
}

func (p *RateProfile) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Rate returns ω(t).
func (p *RateProfile) Rate(t float64) r3.Vector {
	i := sort.Search(len(p.segments), func(i int) bool { return p.segments[i].Start > t })
	if i == 0 {
		return r3.Vector{}
	}
	return p.segments[i-1].Rate
}

func (p *RateProfile) Compute(x sim.State, t float64) sim.Control {
	w := p.Rate(t)
	return sim.Control{w.X, w.Y, w.Z}
}
