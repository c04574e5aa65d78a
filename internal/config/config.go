package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/controllers"
	"github.com/san-kum/attitude/internal/integrators"
	"github.com/san-kum/attitude/internal/rotation"
)

const (
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultIntegrator = "rk4"
	DefaultUnit       = "deg"
)

var ErrInvalid = errors.New("config: invalid scenario")

// Config is a propagation scenario as stored on disk. Angles and rates use
// Unit (rad or deg); rates are body rates p, q, r per second.
type Config struct {
	Name        string          `yaml:"name"`
	Integrator  string          `yaml:"integrator"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Renormalize bool            `yaml:"renormalize"`
	Unit        string          `yaml:"unit"`
	Initial     AttitudeConfig  `yaml:"initial"`
	Rates       []SegmentConfig `yaml:"rates"`
	Envelope    *EnvelopeConfig `yaml:"envelope,omitempty"`
	Hold        *HoldConfig     `yaml:"hold,omitempty"`
}

// HoldConfig replaces the rate schedule with a closed-loop hold on a target
// attitude. MaxRate is in Unit per second; zero means unbounded.
type HoldConfig struct {
	Target  AttitudeConfig `yaml:"target"`
	Kp      float64        `yaml:"kp"`
	Ki      float64        `yaml:"ki"`
	Kd      float64        `yaml:"kd"`
	MaxRate float64        `yaml:"max_rate"`
}

// EnvelopeConfig bounds |roll| and |pitch| for the envelope metric.
type EnvelopeConfig struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
}

type AttitudeConfig struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

type SegmentConfig struct {
	Start float64 `yaml:"start"`
	P     float64 `yaml:"p"`
	Q     float64 `yaml:"q"`
	R     float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "default",
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Renormalize: true,
		Unit:        DefaultUnit,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	if c.Dt > c.Duration {
		return fmt.Errorf("%w: dt %g exceeds duration %g", ErrInvalid, c.Dt, c.Duration)
	}
	if _, err := rotation.ParseAngleUnit(c.Unit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Integrator != "" && !slices.Contains(integrators.Names(), c.Integrator) {
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalid, c.Integrator)
	}
	for i, s := range c.Rates {
		if s.Start < 0 {
			return fmt.Errorf("%w: rate segment %d starts before zero", ErrInvalid, i)
		}
	}
	if e := c.Envelope; e != nil && (e.Roll < 0 || e.Pitch < 0) {
		return fmt.Errorf("%w: envelope limits must not be negative", ErrInvalid)
	}
	if h := c.Hold; h != nil {
		if len(c.Rates) > 0 {
			return fmt.Errorf("%w: hold and rates are mutually exclusive", ErrInvalid)
		}
		g := controllers.HoldConfig{Gains: controllers.Gains{Kp: h.Kp, Ki: h.Ki, Kd: h.Kd}, MaxRate: h.MaxRate}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}

func (c *Config) Clone() *Config {
	out := *c
	out.Rates = slices.Clone(c.Rates)
	if c.Envelope != nil {
		env := *c.Envelope
		out.Envelope = &env
	}
	if c.Hold != nil {
		hold := *c.Hold
		out.Hold = &hold
	}
	return &out
}

// Scenario converts the file form into a propagation scenario in radians.
func (c *Config) Scenario() (attitude.Scenario, error) {
	if err := c.Validate(); err != nil {
		return attitude.Scenario{}, err
	}
	unit, _ := rotation.ParseAngleUnit(c.Unit)

	var rates *attitude.RateProfile
	var hold *controllers.HoldConfig
	switch {
	case c.Hold != nil:
		maxRate := rotation.EulerFromAngles(c.Hold.MaxRate, 0, 0, unit).Roll()
		hold = &controllers.HoldConfig{
			Target:  rotation.QuaternionFromEulerAngles(c.Hold.Target.Roll, c.Hold.Target.Pitch, c.Hold.Target.Yaw, unit),
			Gains:   controllers.Gains{Kp: c.Hold.Kp, Ki: c.Hold.Ki, Kd: c.Hold.Kd},
			MaxRate: maxRate,
		}
	case len(c.Rates) > 0:
		segs := make([]attitude.Segment, len(c.Rates))
		for i, s := range c.Rates {
			rate := rotation.EulerFromAngles(s.P, s.Q, s.R, unit).AsVector(rotation.Radians)
			segs[i] = attitude.Segment{Start: s.Start, Rate: r3.Vector{X: rate[0], Y: rate[1], Z: rate[2]}}
		}
		var err error
		if rates, err = attitude.NewRateProfile(segs); err != nil {
			return attitude.Scenario{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	default:
		rates = attitude.ConstantRate(r3.Vector{})
	}

	var env *attitude.Envelope
	if c.Envelope != nil {
		lim := rotation.EulerFromAngles(c.Envelope.Roll, c.Envelope.Pitch, 0, unit)
		env = &attitude.Envelope{Roll: lim.Roll(), Pitch: lim.Pitch()}
	}

	return attitude.Scenario{
		Name:        c.Name,
		Envelope:    env,
		Initial:     rotation.QuaternionFromEulerAngles(c.Initial.Roll, c.Initial.Pitch, c.Initial.Yaw, unit),
		Rates:       rates,
		Hold:        hold,
		Integrator:  c.Integrator,
		Dt:          c.Dt,
		Duration:    c.Duration,
		Renormalize: c.Renormalize,
	}, nil
}
