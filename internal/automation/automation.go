// Package automation runs scripted batches, parameter sweeps and Monte Carlo
// trials over attitude scenarios.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/config"
	"github.com/san-kum/attitude/internal/metrics"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/store"
)

var ErrEmptyBatch = errors.New("automation: batch has no steps")

// Batch is a scripted sequence of scenario runs.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step names a preset or a scenario file. Non-zero overrides replace the
// scenario's own values.
type Step struct {
	Preset      string  `yaml:"preset"`
	Config      string  `yaml:"config"`
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Renormalize *bool   `yaml:"renormalize"`
}

type StepResult struct {
	Scenario string
	RunID    string
	Final    rotation.UnitQuaternion
	Metrics  map[string]float64
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBatch)
	}
	return &b, nil
}

func (s Step) config() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Renormalize != nil {
		cfg.Renormalize = *s.Renormalize
	}
	return cfg, nil
}

// RunBatch executes the steps in order and stops at the first failure. Runs
// are saved when st is non-nil.
func RunBatch(ctx context.Context, b *Batch, st *store.Store) ([]StepResult, error) {
	if len(b.Steps) == 0 {
		return nil, ErrEmptyBatch
	}
	results := make([]StepResult, 0, len(b.Steps))

	for i, step := range b.Steps {
		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc, err := cfg.Scenario()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		klog.V(1).InfoS("batch step", "batch", b.Name, "step", i+1, "of", len(b.Steps), "scenario", sc.Name)
		tr, err := attitude.Propagate(ctx, sc)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Scenario: sc.Name, Final: tr.Final(), Metrics: tr.Metrics}
		if st != nil {
			if res.RunID, err = st.Save(sc, tr); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep propagates Base once per evenly spaced value of Param
// between Min and Max inclusive. Param is one of dt, duration, kp, ki, kd.
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Steps int

	// Workers bounds concurrent propagations; zero uses GOMAXPROCS.
	Workers int
}

type SweepResult struct {
	Value   float64
	Final   rotation.UnitQuaternion
	Samples int
	Metrics map[string]float64
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dt = v
	case "duration":
		cfg.Duration = v
	case "kp", "ki", "kd":
		if cfg.Hold == nil {
			return fmt.Errorf("scenario %s has no hold gains", cfg.Name)
		}
		switch name {
		case "kp":
			cfg.Hold.Kp = v
		case "ki":
			cfg.Hold.Ki = v
		default:
			cfg.Hold.Kd = v
		}
	default:
		return fmt.Errorf("unknown sweep parameter %q (dt, duration, kp, ki, kd)", name)
	}
	return nil
}

func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.Steps)
	}

	paramStep := 0.0
	if sweep.Steps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}
	values := make([]float64, sweep.Steps)
	scenarios := make([]attitude.Scenario, sweep.Steps)
	for i := range values {
		values[i] = sweep.Min + float64(i)*paramStep
		cfg := sweep.Base.Clone()
		if err := setParam(cfg, sweep.Param, values[i]); err != nil {
			return nil, err
		}
		sc, err := cfg.Scenario()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, values[i], err)
		}
		scenarios[i] = sc
	}

	outcomes, err := attitude.PropagateAll(ctx, scenarios, sweep.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.Steps)
	for i, o := range outcomes {
		if o.Err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, values[i], o.Err)
		}
		tr := o.Trajectory
		results = append(results, SweepResult{Value: values[i], Final: tr.Final(), Samples: tr.Len(), Metrics: tr.Metrics})
		klog.V(2).InfoS("sweep point", "param", sweep.Param, "value", values[i], "index", i+1, "of", sweep.Steps)
	}

	return results, nil
}

// MonteCarloConfig perturbs Base's initial roll, pitch and yaw uniformly by
// up to ±Perturbation, in Base's angle unit.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	Trials       int
	Seed         int64

	// Tolerance is the largest final angle to the hold target, in radians,
	// counted as settled.
	Tolerance float64

	// Workers bounds concurrent propagations; zero uses GOMAXPROCS.
	Workers int
}

type MonteCarloResult struct {
	TrialID int
	Initial config.AttitudeConfig
	Final   rotation.UnitQuaternion
	Stable  bool
}

// RunMonteCarlo propagates perturbed copies of Base. A trial is stable when
// it propagates without diverging, never leaves the envelope, and, for a
// hold scenario, ends within Tolerance of the target.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.Trials)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// draw every perturbation up front so a seed gives the same trials
	// regardless of scheduling
	initial := make([]config.AttitudeConfig, cfg.Trials)
	scenarios := make([]attitude.Scenario, cfg.Trials)
	for trial := range scenarios {
		c := cfg.Base.Clone()
		perturb := func(v float64) float64 { return v + (rng.Float64()-0.5)*2*cfg.Perturbation }
		c.Initial = config.AttitudeConfig{
			Roll:  perturb(c.Initial.Roll),
			Pitch: perturb(c.Initial.Pitch),
			Yaw:   perturb(c.Initial.Yaw),
		}
		sc, err := c.Scenario()
		if err != nil {
			return nil, err
		}
		initial[trial] = c.Initial
		scenarios[trial] = sc
	}

	outcomes, err := attitude.PropagateAll(ctx, scenarios, cfg.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial, o := range outcomes {
		res := MonteCarloResult{TrialID: trial, Initial: initial[trial], Stable: o.Err == nil}
		if o.Trajectory != nil {
			res.Final = o.Trajectory.Final()
		}
		if res.Stable {
			if env, ok := o.Trajectory.Metrics["envelope"]; ok && env < 1 {
				res.Stable = false
			}
			if h := scenarios[trial].Hold; h != nil && metrics.AngleBetween(res.Final, h.Target) > cfg.Tolerance {
				res.Stable = false
			}
		}
		results = append(results, res)
	}
	klog.V(1).InfoS("monte carlo done", "trials", cfg.Trials)

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// FinalSpread is the largest angle between any trial's final attitude and
// the first trial's, in radians.
func FinalSpread(results []MonteCarloResult) float64 {
	spread := 0.0
	for _, r := range results[min(1, len(results)):] {
		spread = math.Max(spread, metrics.AngleBetween(r.Final, results[0].Final))
	}
	return spread
}
