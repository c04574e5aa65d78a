package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attitude/internal/attitude"
)

type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 10}
}

// PlotSeries draws one series. Empty input yields an empty string.
func PlotSeries(data []float64, caption string, opts PlotOptions) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

// PlotEuler draws roll, pitch and yaw in degrees, one graph each.
func PlotEuler(tr *attitude.Trajectory, opts PlotOptions) string {
	n := tr.Len()
	roll := make([]float64, n)
	pitch := make([]float64, n)
	yaw := make([]float64, n)
	for i, e := range tr.Euler {
		roll[i] = e.Roll() * 180 / math.Pi
		pitch[i] = e.Pitch() * 180 / math.Pi
		yaw[i] = e.Yaw() * 180 / math.Pi
	}

	graphs := []string{
		PlotSeries(roll, "roll (deg)", opts),
		PlotSeries(pitch, "pitch (deg)", opts),
		PlotSeries(yaw, "yaw (deg)", opts),
	}
	return strings.Join(graphs, "\n\n")
}

// PlotNormDrift draws ‖q‖ - 1 as stored in the trajectory.
func PlotNormDrift(tr *attitude.Trajectory, opts PlotOptions) string {
	drift := make([]float64, tr.Len())
	for i, n := range tr.Norms {
		drift[i] = n - 1
	}
	caption := "norm drift |q| - 1"
	if d, ok := tr.Metrics["norm_drift"]; ok {
		caption = fmt.Sprintf("%s (max per step %.3g)", caption, d)
	}
	return PlotSeries(drift, caption, opts)
}
