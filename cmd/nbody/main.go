package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbody/internal/analysis"
	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/universe"
	"github.com/san-kum/nbody/internal/viz"
)

type options struct {
	dataDir     string
	configFile  string
	preset      string
	dt          float64
	duration    float64
	workers     int
	recordEvery int
	noValidate  bool
	quiet       bool
	frameRate   int
	theme       string
	output      string
	width       int
	height      int
	reference   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "nbody",
		Short:        "2D gravitational n-body simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "run simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args, opts)
		},
	}
	addRunFlags(runCmd, opts)
	runCmd.Flags().IntVar(&opts.recordEvery, "record-every", config.DefaultRecordEvery, "store every n-th state")
	runCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the final universe")

	liveCmd := &cobra.Command{
		Use:   "live [file]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args, opts)
		},
	}
	addRunFlags(liveCmd, opts)
	liveCmd.Flags().IntVar(&opts.frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&opts.theme, "theme", viz.ThemeDeepSpace.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	svgCmd := &cobra.Command{
		Use:   "svg [file]",
		Short: "render trajectories to an SVG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderSVG(cmd, args, opts)
		},
	}
	addRunFlags(svgCmd, opts)
	svgCmd.Flags().StringVarP(&opts.output, "output", "o", "trajectories.svg", "output file")
	svgCmd.Flags().IntVar(&opts.width, "width", 800, "image width")
	svgCmd.Flags().IntVar(&opts.height, "height", 800, "image height")
	svgCmd.Flags().IntVar(&opts.recordEvery, "record-every", 10, "sample every n-th step")
	svgCmd.Flags().StringVar(&opts.theme, "theme", viz.ThemeDeepSpace.Name, "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts)
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body positions of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotRun(cmd, args[0], opts)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportJSON(cmd, args[0], opts)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportCSV(cmd, args[0], opts)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbits of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRun(cmd, args[0], opts)
		},
	}
	analyzeCmd.Flags().StringVar(&opts.reference, "ref", "", "reference body (default: heaviest)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in universes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tRADIUS\tDT\tDURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2e\t%g\t%s\n", name, len(p.Bodies), p.Radius, p.Dt, viz.FormatSeconds(p.Duration))
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "compare step throughput across worker counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchWorkers(cmd, args, opts)
		},
	}
	addRunFlags(benchCmd, opts)

	rootCmd.AddCommand(runCmd, liveCmd, svgCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, analyzeCmd, presetsCmd, benchCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "built-in universe (see presets)")
	cmd.Flags().Float64Var(&opts.dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&opts.duration, "time", config.DefaultDuration, "simulated duration in seconds")
	cmd.Flags().IntVar(&opts.workers, "workers", config.DefaultWorkers, "force computation workers")
	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "let non-finite state propagate")
}

// resolve merges the config file, preset, positional file and flags. Flags
// win only when set explicitly; a positional file wins over any preset.
func resolve(cmd *cobra.Command, args []string, opts *options) (*config.Config, *sim.Universe, string, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	presetDefaults := false
	if opts.preset != "" {
		p := config.GetPreset(opts.preset)
		if p == nil {
			return nil, nil, "", fmt.Errorf("unknown preset: %s (available: %v)", opts.preset, config.ListPresets())
		}
		cfg.Preset = opts.preset
		cfg.Input = ""
		cfg.Dt = p.Dt
		cfg.Duration = p.Duration
		presetDefaults = true
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if opts.configFile == "" && !presetDefaults && cfg.Input == "" {
		if p := config.GetPreset(cfg.Preset); p != nil {
			cfg.Dt = p.Dt
			cfg.Duration = p.Duration
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = opts.dt
	}
	if flags.Changed("time") {
		cfg.Duration = opts.duration
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = opts.recordEvery
	}
	if flags.Changed("no-validate") {
		cfg.Validate = !opts.noValidate
	}
	if flags.Changed("data") {
		cfg.DataDir = opts.dataDir
	}

	u, err := cfg.Universe()
	if err != nil {
		return nil, nil, "", err
	}

	source := cfg.Preset
	if cfg.Input != "" {
		source = strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input))
	}
	return cfg, u, source, nil
}

func runSimulation(cmd *cobra.Command, args []string, opts *options) error {
	cfg, u, source, err := resolve(cmd, args, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New()
	ms := metrics.Defaults()
	for _, m := range ms {
		s.AddMetric(m)
	}

	simCfg := cfg.SimConfig()
	fmt.Fprintf(out, "running %s: %d bodies, %d steps of %g s\n", source, u.Len(), simCfg.Steps(), simCfg.Dt)
	start := time.Now()

	result, err := s.Run(cmd.Context(), u, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(source, u.Radius, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, viz.HeaderStyle.Render("completed in "+elapsed.Round(time.Millisecond).String()))
	fmt.Fprintln(out, viz.Metric("run id", runID))
	fmt.Fprintln(out, viz.Metric("steps", fmt.Sprintf("%d", result.StepsTaken)))
	fmt.Fprintln(out, viz.Metric("simulated", viz.FormatSeconds(float64(result.StepsTaken)*simCfg.Dt)))
	fmt.Fprintln(out, viz.Metric("energy drift", fmt.Sprintf("%.3e", result.EnergyDrift)))
	for _, m := range ms {
		fmt.Fprintln(out, viz.Metric(m.Name(), fmt.Sprintf("%.6f", result.Metrics[m.Name()])))
	}
	for _, e := range result.Errors {
		fmt.Fprintln(out, viz.StatusError.Render("error: "+e.Error()))
	}

	if !opts.quiet {
		fmt.Fprintln(out)
		if err := universe.Write(out, u.Radius, u.Bodies); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		return result.Errors[0]
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string, opts *options) error {
	cfg, u, source, err := resolve(cmd, args, opts)
	if err != nil {
		return err
	}
	if cfg.Workers > 0 {
		u.Workers = cfg.Workers
	}

	fps := cfg.FPS
	if cmd.Flags().Changed("fps") {
		fps = opts.frameRate
	}
	viz.SetTheme(opts.theme)

	m := viz.NewModel(u, cfg.Dt, source, fps, cfg.Validate)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string, opts *options) error {
	cfg, u, source, err := resolve(cmd, args, opts)
	if err != nil {
		return err
	}
	viz.SetTheme(opts.theme)

	every := opts.recordEvery
	if every < 1 {
		every = 1
	}

	rec := viz.NewTrajectoryRecorder()
	step := 0
	err = sim.New().RunWithCallback(cmd.Context(), u, cfg.SimConfig(), func(u *sim.Universe, t float64) bool {
		if step%every == 0 {
			rec.Record(u)
		}
		step++
		return true
	})
	// The last callback may fall between samples.
	rec.Record(u)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, []byte(rec.SVG(opts.width, opts.height, u.Radius)), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bodies)\n", opts.output, source, len(rec.Names()))
	return nil
}

func listRuns(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()
	st := storage.New(opts.dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tBODIES\tDURATION\tDT\tSTEPS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%gs\t%d\t%.2e\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			viz.FormatSeconds(run.Duration),
			run.Dt,
			run.Steps,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, runID string, opts *options) error {
	out := cmd.OutOrStdout()
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "source: %s\n", meta.Source)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	for i, name := range meta.Bodies {
		xs := make([]float64, len(states))
		ys := make([]float64, len(states))
		for j, s := range states {
			if i < s.NumBodies() {
				xs[j], ys[j], _, _ = s.Body(i)
			}
		}

		graph := asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
			asciigraph.Caption(viz.ShortName(name)+" x (blue), y (red) in m"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, runID string, opts *options) error {
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, states, times)
}

func exportCSV(cmd *cobra.Command, runID string, opts *options) error {
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	return storage.ExportCSV(cmd.OutOrStdout(), meta.Bodies, states, times)
}

func analyzeRun(cmd *cobra.Command, runID string, opts *options) error {
	out := cmd.OutOrStdout()
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) < 3 {
		return fmt.Errorf("not enough samples to analyze: %d", len(states))
	}

	states, sampleDt := uniformSamples(states, times)

	ref := analysis.Heaviest(meta.Masses)
	if opts.reference != "" {
		ref = -1
		for i, name := range meta.Bodies {
			if name == opts.reference || viz.ShortName(name) == opts.reference {
				ref = i
			}
		}
		if ref < 0 {
			return fmt.Errorf("unknown body: %s", opts.reference)
		}
	}
	if ref < 0 {
		return fmt.Errorf("run %s has no body masses; pass --ref", runID)
	}

	fmt.Fprintf(out, "orbits about %s (%d samples every %s)\n\n", viz.ShortName(meta.Bodies[ref]), len(states), viz.FormatSeconds(sampleDt))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPERIAPSIS\tAPOAPSIS\tECC\tPERIOD")
	for _, o := range analysis.Orbits(meta.Bodies, states, sampleDt, ref) {
		period := "-"
		if o.Period > 0 {
			period = viz.FormatSeconds(o.Period)
		}
		fmt.Fprintf(w, "%s\t%.4e\t%.4e\t%.4f\t%s\n", viz.ShortName(o.Name), o.Periapsis, o.Apoapsis, o.Eccentricity, period)
	}
	return w.Flush()
}

// uniformSamples drops the final sample when it falls off the recording
// interval and returns the interval.
func uniformSamples(states []sim.State, times []float64) ([]sim.State, float64) {
	if len(times) < 3 {
		return states, 0
	}
	sampleDt := times[1] - times[0]
	last := len(times) - 1
	if gap := times[last] - times[last-1]; math.Abs(gap-sampleDt) > 1e-6*math.Abs(sampleDt) {
		states = states[:last]
	}
	return states, sampleDt
}

func benchWorkers(cmd *cobra.Command, args []string, opts *options) error {
	cfg, u, source, err := resolve(cmd, args, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	simCfg := cfg.SimConfig()
	simCfg.RecordEvery = simCfg.Steps() + 1

	fmt.Fprintf(out, "benchmarking %s (%d bodies, %d steps)\n\n", source, u.Len(), simCfg.Steps())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tSTEPS/SEC\tDRIFT")

	for _, workers := range []int{1, 2, 4, 8} {
		simCfg.Workers = workers
		start := time.Now()
		result, err := sim.New().Run(cmd.Context(), u.Clone(), simCfg)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.2e\n",
			workers, elapsed.Round(time.Microsecond), float64(result.StepsTaken)/elapsed.Seconds(), result.EnergyDrift)
	}

	return w.Flush()
}
