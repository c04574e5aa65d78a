package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/optim"
	"github.com/san-kum/attitude/internal/viz"
)

func tuneHold(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(tunePreset, tuneConfig)
	if err != nil {
		return err
	}
	if cfg.Hold == nil {
		return fmt.Errorf("scenario %s has no hold to tune", cfg.Name)
	}

	search, err := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{tuneKp, tuneKi, tuneKd})
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (attitude.Scenario, error) {
		c := cfg.Clone()
		c.Hold.Kp, c.Hold.Ki, c.Hold.Kd = params["kp"], params["ki"], params["kd"]
		return c.Scenario()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	klog.V(1).InfoS("tuning hold", "scenario", cfg.Name, "points", search.Size(), "metric", tuneMetric)
	best, err := search.Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render("tuned "+cfg.Name))
	fmt.Fprintf(out, "searched %d gain sets\n", search.Size())
	fmt.Fprintf(out, "best: kp=%g ki=%g kd=%g\n", best.Params["kp"], best.Params["ki"], best.Params["kd"])
	fmt.Fprintf(out, "%s: %.6g\n", tuneMetric, best.Score)
	return nil
}
