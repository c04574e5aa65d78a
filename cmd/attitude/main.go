package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/config"
	"github.com/san-kum/attitude/internal/export"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/store"
	"github.com/san-kum/attitude/internal/tui"
	"github.com/san-kum/attitude/internal/viz"
)

var (
	dataDir string
	degrees bool

	dt          float64
	duration    float64
	integrator  string
	renormalize bool
	configFile  string
	preset      string
	live        bool
	frameRate   int
	noSave      bool

	plotWidth  int
	plotHeight int
	plotDrift  bool
	svgFile    string

	axisName       string
	chartWidth     int
	chartHeight    int
	phaseX         string
	phaseY         string
	portraitWidth  int
	portraitHeight int
	renderAt       float64
	renderWidth    int
	renderHeight   int

	outFile string

	roll, pitch, yaw float64

	tuneConfig string
	tunePreset string
	tuneKp     []float64
	tuneKi     []float64
	tuneKd     []float64
	tuneMetric string

	batchNoSave bool

	sweepConfig string
	sweepPreset string
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int

	mcConfig  string
	mcPreset  string
	mcTrials  int
	mcPerturb float64
	mcSeed    int64
	mcTol     float64

	workers int
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "attitude",
		Short:         "3d rotation toolkit and attitude propagator",
		SilenceUsage: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attitude", "data directory")

	convertCmd := &cobra.Command{
		Use:   "convert euler|quat|matrix <components...>",
		Short: "convert a rotation between representations",
		Args:  cobra.MinimumNArgs(1),
		RunE:  convertRotation,
	}
	convertCmd.Flags().BoolVar(&degrees, "deg", false, "euler angles in degrees")

	rotateCmd := &cobra.Command{
		Use:   "rotate <w x y z> <vx vy vz>",
		Short: "rotate a body vector into the inertial frame",
		Args:  cobra.ExactArgs(7),
		RunE:  rotateVector,
	}

	composeCmd := &cobra.Command{
		Use:   "compose <w x y z> <w x y z>",
		Short: "hamilton product of two quaternions",
		Args:  cobra.ExactArgs(8),
		RunE:  composeQuaternions,
	}

	frameCmd := &cobra.Command{
		Use:   "frame <yaw> [zx zy zz]",
		Short: "rotation matrix from a heading and a down axis",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 4 {
				return fmt.Errorf("expected 1 or 4 args, got %d", len(args))
			}
			return nil
		},
		RunE: yawFrame,
	}
	frameCmd.Flags().BoolVar(&degrees, "deg", false, "yaw in degrees")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate an attitude scenario and save the run",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")
	runCmd.Flags().BoolVar(&renormalize, "renormalize", true, "renormalize the quaternion after each step")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the attitude while propagating")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the gains of a hold scenario",
		Args:  cobra.NoArgs,
		RunE:  tuneHold,
	}
	tuneCmd.Flags().StringVar(&tuneConfig, "config", "", "scenario file (yaml)")
	tuneCmd.Flags().StringVar(&tunePreset, "preset", "level", "use a preset scenario")
	tuneCmd.Flags().Float64SliceVar(&tuneKp, "kp", []float64{0.5, 1, 2, 4}, "proportional gains to try")
	tuneCmd.Flags().Float64SliceVar(&tuneKi, "ki", []float64{0}, "integral gains to try")
	tuneCmd.Flags().Float64SliceVar(&tuneKd, "kd", []float64{0}, "derivative gains to try")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "tracking_error", "metric to minimize")

	batchCmd := &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "run a scripted sequence of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&batchNoSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "propagate a scenario across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepConfig, "config", "", "scenario file (yaml)")
	sweepCmd.Flags().StringVar(&sweepPreset, "preset", "tumble", "use a preset scenario")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "parameter (dt, duration, kp, ki, kd)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.001, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.05, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent propagations (0 uses all cpus)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "propagate randomly perturbed initial attitudes",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&mcConfig, "config", "", "scenario file (yaml)")
	monteCarloCmd.Flags().StringVar(&mcPreset, "preset", "level", "use a preset scenario")
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 10, "max perturbation per euler angle, in the scenario unit")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 picks one)")
	monteCarloCmd.Flags().Float64Var(&mcTol, "tol", 0.01, "settling tolerance for hold scenarios (rad)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "concurrent propagations (0 uses all cpus)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot euler angles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().BoolVar(&plotDrift, "drift", false, "also plot quaternion norm drift")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write the euler chart as svg to this file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of one channel of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&axisName, "axis", "roll", "channel (roll, pitch, yaw, p, q, r)")
	analyzeCmd.Flags().IntVar(&chartWidth, "width", 80, "plot width")
	analyzeCmd.Flags().IntVar(&chartHeight, "height", 10, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one channel of a run against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phaseRun,
	}
	phaseCmd.Flags().StringVar(&phaseX, "x", "roll", "horizontal channel")
	phaseCmd.Flags().StringVar(&phaseY, "y", "p", "vertical channel")
	phaseCmd.Flags().IntVar(&portraitWidth, "width", 60, "portrait width")
	phaseCmd.Flags().IntVar(&portraitHeight, "height", 20, "portrait height")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "draw the airframe of a run at one instant",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().Float64Var(&renderAt, "at", -1, "time to draw (default last sample)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 40, "canvas width in cells")
	renderCmd.Flags().IntVar(&renderHeight, "height", 16, "canvas height in cells")
	renderCmd.Flags().StringVar(&svgFile, "svg", "", "write the drawing as svg to this file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run with its history as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive attitude view",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&roll, "roll", 0, "initial roll (deg)")
	liveCmd.Flags().Float64Var(&pitch, "pitch", 0, "initial pitch (deg)")
	liveCmd.Flags().Float64Var(&yaw, "yaw", 0, "initial yaw (deg)")

	rootCmd.AddCommand(convertCmd, rotateCmd, composeCmd, frameCmd, runCmd, tuneCmd,
		batchCmd, sweepCmd, monteCarloCmd,
		listCmd, plotCmd, analyzeCmd, phaseCmd, renderCmd, exportCmd, presetsCmd, liveCmd)
	return rootCmd
}

func loadConfig(preset, file string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(preset, configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("renormalize") {
		cfg.Renormalize = renormalize
	}

	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if live {
		r := tui.NewLiveRenderer(out, sc.Name, frameRate)
		r.Start()
		defer r.Stop()
		sc.Observers = append(sc.Observers, r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	klog.V(1).InfoS("running scenario", "name", sc.Name, "integrator", sc.Integrator, "dt", sc.Dt, "duration", sc.Duration)
	tr, err := attitude.Propagate(ctx, sc)
	if err != nil {
		return err
	}

	final := tr.Final()
	fmt.Fprintln(out, viz.Title.Render("scenario "+sc.Name))
	fmt.Fprintf(out, "samples: %d  norm drift: %.3g  angular travel: %.4f rad\n",
		tr.Len(), tr.Metrics["norm_drift"], tr.Metrics["angular_travel"])
	fmt.Fprintln(out, viz.FormatEuler(final.AsEuler(), rotation.Degrees))
	fmt.Fprintln(out, viz.FormatQuaternion(final))

	if noSave {
		return nil
	}
	st := store.New(dataDir)
	runID, err := st.Save(sc, tr)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved run %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tINTEG\tRENORM\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%t\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Renormalize,
			run.Metrics["norm_drift"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	if svgFile != "" {
		if err := writeFile(svgFile, func(w io.Writer) error {
			return export.EulerSVG(w, tr, plotWidth*10, plotHeight*30)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgFile)
		return nil
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "samples: %d\n\n", tr.Len())

	opts := viz.PlotOptions{Width: plotWidth, Height: plotHeight}
	fmt.Fprintln(out, viz.PlotEuler(tr, opts))
	if plotDrift {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotNormDrift(tr, opts))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := store.ExportJSON(outFile, *meta, tr); err != nil {
			return err
		}
		klog.V(1).InfoS("exported run", "id", runID, "path", outFile)
		return nil
	}
	return store.ExportJSONTo(cmd.OutOrStdout(), *meta, tr)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTEG\tDURATION\tRENORM\tCOMMAND")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		command := fmt.Sprintf("%d segments", len(p.Rates))
		if p.Hold != nil {
			command = "hold"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%t\t%s\n", name, p.Integrator, p.Duration, p.Renormalize, command)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	q := rotation.QuaternionFromEulerAngles(roll, pitch, yaw, rotation.Degrees)
	return tui.RunInteractive(q)
}
