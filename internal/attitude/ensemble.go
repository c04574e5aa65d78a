package attitude

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one scenario of an ensemble.
type Outcome struct {
	Trajectory *Trajectory
	Err        error
}

// PropagateAll propagates scenarios concurrently with at most workers in
// flight; workers <= 0 uses GOMAXPROCS. Outcomes are indexed like scenarios.
// A failed scenario does not stop the others; only cancellation of ctx does,
// and then ctx.Err() is returned along with whatever finished.
func PropagateAll(ctx context.Context, scenarios []Scenario, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]Outcome, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range scenarios {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			tr, err := Propagate(gctx, scenarios[i])
			outcomes[i] = Outcome{Trajectory: tr, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
