// Package optim searches scenario parameters for the lowest metric value.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/attitude"
)

var ErrNoCandidate = errors.New("optim: no parameter set produced a result")

// Builder turns one grid point into a scenario.
type Builder func(params map[string]float64) (attitude.Scenario, error)

type Candidate struct {
	Params map[string]float64
	Score  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: parameter %q has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search propagates every grid point and returns the one with the lowest
// metricName. Points that fail to build or propagate are skipped; ties keep
// the first point visited.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (*Candidate, error) {
	best := &Candidate{Score: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, best); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return nil, ErrNoCandidate
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	best *Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		sc, err := build(current)
		if err != nil {
			klog.V(3).InfoS("skipping grid point", "params", current, "err", err)
			return nil
		}
		tr, err := attitude.Propagate(ctx, sc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			klog.V(3).InfoS("grid point failed", "params", current, "err", err)
			return nil
		}

		val, ok := tr.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: scenario has no metric %q", metricName)
		}
		klog.V(4).InfoS("grid point", "params", current, metricName, val)
		if val < best.Score {
			best.Score = val
			best.Params = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, best); err != nil {
			return err
		}
	}
	return nil
}
