package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/attitude/internal/automation"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/store"
	"github.com/san-kum/attitude/internal/viz"
)

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	var st *store.Store
	if !batchNoSave {
		st = store.New(dataDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunBatch(ctx, b, st)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render("batch "+b.Name))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tRUN\tDRIFT\tTRAVEL")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2e\t%.4f\n", i+1, r.Scenario, runID, r.Metrics["norm_drift"], r.Metrics["angular_travel"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(sweepPreset, sweepConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base: cfg, Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps, Workers: workers,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render(fmt.Sprintf("sweep %s over %s", cfg.Name, sweepParam)))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tSAMPLES\tDRIFT\tROLL\tPITCH\tYAW")
	for _, r := range results {
		e := r.Final.AsEuler().AsVector(rotation.Degrees)
		fmt.Fprintf(w, "%g\t%d\t%.2e\t%+.3f\t%+.3f\t%+.3f\n", r.Value, r.Samples, r.Metrics["norm_drift"], e[0], e[1], e[2])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(mcPreset, mcConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base: cfg, Perturbation: mcPerturb, Trials: mcTrials, Seed: mcSeed, Tolerance: mcTol, Workers: workers,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render("monte carlo "+cfg.Name))
	fmt.Fprintf(out, "trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	fmt.Fprintf(out, "final spread: %.4g deg\n", automation.FinalSpread(results)*180/math.Pi)
	return nil
}
