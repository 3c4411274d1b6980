package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/chutesim/internal/api"
	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/config"
	"github.com/san-kum/chutesim/internal/export"
	"github.com/san-kum/chutesim/internal/metrics"
	"github.com/san-kum/chutesim/internal/sim"
	"github.com/san-kum/chutesim/internal/storage"
	"github.com/san-kum/chutesim/internal/sweep"
	"github.com/san-kum/chutesim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger

	// Scenario selection and overrides
	configFile string
	preset     string
	altitude   float64
	velocity   float64
	dt         float64
	angle      float64
	wind       float64
	windDir    float64

	noSave     bool
	showPlot   bool
	initPreset string
	force      bool
	output     string

	// SVG export
	svgKind   string
	svgWidth  int
	svgHeight int

	// Sweep
	sweepPhase  string
	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepStep   float64
	sweepTarget float64
	workers     int

	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chutesim",
		Short:         "multi-stage parachute descent simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = newLogger(os.Stderr, level, false)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chutesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a descent",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().Float64Var(&altitude, "alt", config.DefaultAltitude, "initial altitude (m)")
	runCmd.Flags().Float64Var(&velocity, "vel", config.DefaultVelocity, "initial velocity (m/s)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	runCmd.Flags().Float64Var(&angle, "angle", config.DefaultAngle, "descent angle from vertical (deg)")
	runCmd.Flags().Float64Var(&wind, "wind", 0, "steady wind speed for the drift estimate (m/s)")
	runCmd.Flags().Float64Var(&windDir, "wind-dir", 0, "wind direction relative to the flight path (deg, 0 = tail wind)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print plots after the summary")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  validateScenario,
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a preset as a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  initScenario,
	}
	initCmd.Flags().StringVar(&initPreset, "preset", "capsule", "preset to write")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	phasesCmd := &cobra.Command{
		Use:   "phases",
		Short: "parachute phase reference",
		Args:  cobra.NoArgs,
		RunE:  showPhases,
	}
	addScenarioFlags(phasesCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run results",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run chart to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "trajectory", "chart kind: trajectory, drag or braille")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "width in pixels")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 500, "height in pixels")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one phase parameter and compare landings",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepPhase, "phase", "main", "phase to vary")
	sweepCmd.Flags().StringVar(&sweepParam, "param", chute.ParamDiameter, "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 30, "last value")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 5, "value step")
	sweepCmd.Flags().Float64Var(&sweepTarget, "target", 0, "max landing velocity (m/s); 0 picks the slowest landing")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: number of CPUs)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulator over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(runCmd, validateCmd, initCmd, presetsCmd, phasesCmd, listCmd, showCmd, plotCmd, replayCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, sweepCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
}

// loadScenario resolves the scenario for cmd: a config file wins over a
// preset, which wins over the default. Override flags apply only when set
// explicitly.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Lookup("alt") == nil {
		return cfg, nil
	}
	if flags.Changed("alt") {
		cfg.InitialAltitude = altitude
	}
	if flags.Changed("vel") {
		cfg.InitialVelocity = velocity
	}
	if flags.Changed("dt") {
		cfg.TimeStep = dt
	}
	if flags.Changed("angle") {
		cfg.DescentAngle = angle
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	cc, err := cfg.ToChute()
	if err != nil {
		return err
	}

	ms := metrics.Defaults()
	if cmd.Flags().Changed("wind") || cmd.Flags().Changed("wind-dir") {
		ms = append(ms, metrics.NewWindDrift(cc.Global.DescentAngle, wind, windDir))
	}
	opts := []sim.Option{
		sim.WithMetrics(ms...),
		sim.WithObservers(deployLogger{logger: logger}),
	}
	if noSave && !showPlot {
		opts = append(opts, sim.WithoutHistory())
	}

	logger.Debug("running scenario", "name", cfg.Name, "phases", len(cc.Order), "dt", cc.Global.TimeStep)
	start := time.Now()
	result, err := sim.Simulate(cc, opts...)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if err != nil {
		return fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}
	elapsed := time.Since(start)

	fmt.Printf("%s completed in %v (%d steps)\n\n", viz.Title.Render(cfg.Name), elapsed.Round(time.Microsecond), result.Steps)
	fmt.Println(viz.SummaryTable(result.Outcome, result.Summary, result.Metrics))
	fmt.Println(viz.PhaseTable(result.Summary.Phases))

	if showPlot {
		printPlots(result.Series, result.Deployments)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Name, cfg, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if err := result.Err(); err != nil {
		return fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}
	return nil
}

var plotKeys = []string{sim.KeyAltitude, sim.KeyVelocity, sim.KeyTotalDrag}

func printPlots(ts *sim.TimeSeries, deployments []sim.Deployment) {
	writePlots(os.Stdout, ts, deployments, plotKeys)
}

// writePlots skips any chart that cannot be drawn and keeps going.
func writePlots(w io.Writer, ts *sim.TimeSeries, deployments []sim.Deployment, keys []string) {
	for _, key := range keys {
		graph, err := viz.PlotSeries(ts, key)
		if err != nil {
			logger.Warn("plot", "series", key, "error", err)
			continue
		}
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
	if graph, err := viz.PlotDrag(ts); err == nil {
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, viz.Profile(ts, deployments, 60, 15))
}

func validateScenario(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	cc, err := cfg.ToChute()
	if err != nil {
		return err
	}

	warnings, err := chute.Validate(cc)
	for _, w := range warnings {
		fmt.Printf("%s %s\n", viz.StatusWarn.Render("warning:"), w)
	}
	var verr *chute.ValidationError
	if errors.As(err, &verr) {
		for _, p := range verr.Problems {
			fmt.Printf("%s %s\n", viz.StatusFail.Render("invalid:"), p)
		}
		return fmt.Errorf("%s: %d problem(s)", args[0], len(verr.Problems))
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%d phases)\n", viz.StatusOK.Render("ok:"), args[0], len(cc.Order))
	return nil
}

func initScenario(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(initPreset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", initPreset, config.ListPresets())
	}
	if _, err := os.Stat(args[0]); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", args[0])
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s preset to %s\n", initPreset, args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALTITUDE\tVELOCITY\tANGLE\tPHASES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		phases := make([]string, len(cfg.Phases))
		for i, p := range cfg.Phases {
			phases[i] = p.Phase
		}
		fmt.Fprintf(w, "%s\t%.0fm\t%.0fm/s\t%.0f°\t%s\n",
			name, cfg.InitialAltitude, cfg.InitialVelocity, cfg.DescentAngle, strings.Join(phases, " → "))
	}
	return w.Flush()
}

func showPhases(cmd *cobra.Command, args []string) error {
	var cc *chute.Config
	if configFile != "" || preset != "" {
		cfg, err := loadScenario(cmd)
		if err != nil {
			return err
		}
		c, err := cfg.ToChute()
		if err != nil {
			return err
		}
		cc = &c
	}
	fmt.Println(viz.ReferenceTable(cc))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tOUTCOME\tLANDING\tFLIGHT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fm/s\t%.1fs\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Summary.LandingVelocity,
			run.Summary.FlightTime,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s  %d steps\n\n", viz.Title.Render(meta.ID), meta.Timestamp.Format(time.RFC3339), meta.Steps)
	fmt.Println(viz.SummaryTable(meta.Outcome, meta.Summary, meta.Metrics))
	fmt.Println(viz.PhaseTable(meta.Summary.Phases))
	for _, w := range meta.Warnings {
		fmt.Printf("%s %s\n", viz.StatusWarn.Render("warning:"), w)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n\n", viz.Title.Render(meta.ID), viz.OutcomeStyle(meta.Outcome))
	printPlots(ts, meta.Deployments)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewReplayModel(meta.Name, ts, meta.Deployments), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return storage.ExportJSON(out, meta, ts)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ts, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return storage.WriteCSV(out, ts)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ts, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	var doc string
	switch svgKind {
	case "trajectory":
		doc = export.TrajectoryToSVG(ts, meta.Deployments, svgWidth, svgHeight)
	case "drag":
		doc = export.SeriesToSVG(ts, svgWidth, svgHeight)
	case "braille":
		c := viz.NewCanvas(svgWidth/8, svgHeight/16)
		xs, _ := viz.ProfileAxes(ts)
		c.Polyline(viz.FrameOf(xs, ts.Altitude), xs, ts.Altitude, ts.Len())
		doc = export.CanvasToSVG(c, 4, "#00ff88")
	default:
		return fmt.Errorf("unknown svg kind: %s (want trajectory, drag or braille)", svgKind)
	}
	if doc == "" {
		return fmt.Errorf("run %s has too few samples to draw", args[0])
	}

	path := output
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	cc, err := cfg.ToChute()
	if err != nil {
		return err
	}
	phase, err := chute.ParsePhase(sweepPhase)
	if err != nil {
		return err
	}
	values, err := sweep.Range(sweepFrom, sweepTo, sweepStep, sweep.DefaultMaxValues)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := sweep.Sweep{Phase: phase, Param: sweepParam, Values: values}
	logger.Info("sweeping", "phase", phase.Key(), "param", sweepParam, "values", len(values))
	points, err := s.Run(ctx, cc, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOUTCOME\tLANDING\tFLIGHT\tMAX DRAG\tRANGE\n", strings.ToUpper(sweepParam))
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%g\t%s\t%s\t\t\t\n", p.Value, p.Outcome, p.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%s\t%.2fm/s\t%.1fs\t%.0fN\t%.0fm\n",
			p.Value, p.Outcome, p.LandingVelocity, p.FlightTime, p.MaxTotalDrag, p.HorizontalRange)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, err := sweep.Best(points, sweepTarget)
	if err != nil {
		return err
	}
	fmt.Printf("\nbest %s.%s = %g (landing %.2f m/s)\n", phase.Key(), sweepParam, best.Value, best.LandingVelocity)
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = newLogger(os.Stdout, level, true)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	srv := api.NewServer(addr, logger, st)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "data", dataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
