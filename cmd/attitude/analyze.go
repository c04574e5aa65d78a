package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/analysis"
	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/export"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/store"
	"github.com/san-kum/attitude/internal/viz"
)

func loadRun(runID string) (*store.RunMetadata, *attitude.Trajectory, error) {
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if tr.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, tr, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	axis, err := analysis.ParseAxis(axisName)
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data := analysis.Channel(tr, axis)
	freq, mag := analysis.DominantFrequency(data, meta.Dt)
	klog.V(2).InfoS("analyzed run", "id", meta.ID, "axis", axis, "hz", freq, "magnitude", mag)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintln(out, viz.KeyValue("axis", string(axis), 10))
	if mag < 1e-9 {
		fmt.Fprintln(out, viz.KeyValue("dominant", "none", 10))
	} else {
		fmt.Fprintln(out, viz.KeyValue("dominant", fmt.Sprintf("%.4f Hz (period %.3f s)", freq, 1/freq), 10))
	}
	fmt.Fprintln(out)

	spectrum := analysis.PowerSpectrum(data)
	if len(spectrum) < 2 {
		return nil
	}
	caption := fmt.Sprintf("power spectrum of %s, bin width %.4f Hz", axis, 1/(float64(len(data))*meta.Dt))
	fmt.Fprintln(out, viz.PlotSeries(spectrum, caption, viz.PlotOptions{Width: chartWidth, Height: chartHeight}))
	return nil
}

func phaseRun(cmd *cobra.Command, args []string) error {
	x, err := analysis.ParseAxis(phaseX)
	if err != nil {
		return err
	}
	y, err := analysis.ParseAxis(phaseY)
	if err != nil {
		return err
	}
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.GeneratePhasePortrait(tr, x, y)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s  %s vs %s\n", meta.ID, y, x)
	fmt.Fprintln(out, portrait.ToASCII(portraitWidth, portraitHeight))
	return nil
}

// sampleAt picks the sample closest to t; a negative t selects the last one.
func sampleAt(tr *attitude.Trajectory, t float64) int {
	if t < 0 {
		return tr.Len() - 1
	}
	best := 0
	for i, ti := range tr.Times {
		if math.Abs(ti-t) < math.Abs(tr.Times[best]-t) {
			best = i
		}
	}
	return best
}

func renderRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	i := sampleAt(tr, renderAt)
	q := tr.Quaternions[i]
	canvas := viz.NewCanvas(renderWidth, renderHeight)
	viz.DrawAttitude(canvas, q, viz.NewCamera())

	out := cmd.OutOrStdout()
	if svgFile != "" {
		if err := writeFile(svgFile, func(w io.Writer) error {
			_, err := io.WriteString(w, export.CanvasToSVG(canvas, 4))
			return err
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgFile)
		return nil
	}

	fmt.Fprintf(out, "run: %s  t=%.3f s\n", meta.ID, tr.Times[i])
	fmt.Fprintln(out, canvas.String())
	fmt.Fprintln(out, viz.FormatEuler(tr.Euler[i], rotation.Degrees))
	return nil
}
