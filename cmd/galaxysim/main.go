package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/export"
	"github.com/san-kum/galaxysim/internal/gui"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/shader"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	particles  int
	galaxies   int
	backend    string
	workers    int
	validate   bool
	logLevel   string

	frames     int
	ensemble   int
	plot       bool
	energySVG  string
	logEvery   int
	snapOut    string
	snapFrames int
	configOut  string
	benchSize  []int
	benchStep  int

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "galaxysim"})
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "galaxysim",
		Short: "colliding galaxies, direct-sum n-body",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	pf.IntVar(&galaxies, "galaxies", config.DefaultGalaxies, "number of galaxies")
	pf.StringVar(&backend, "backend", "cpu", "force backend ("+strings.Join(compute.Names(), ", ")+")")
	pf.IntVar(&workers, "workers", 0, "worker goroutines (0 = all cores)")
	pf.BoolVar(&validate, "validate", false, "fail on NaN or Inf in the particle state")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 300, "frames to simulate")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "independent runs with consecutive seeds")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot kinetic energy")
	runCmd.Flags().StringVar(&energySVG, "energy-svg", "", "write kinetic energy series to an svg file")
	runCmd.Flags().IntVar(&logEvery, "log-every", 50, "log progress every n frames (0 = never)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with terminal visualization",
		RunE:  runLive,
	}

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run in a raylib window",
		RunE:  runWindow,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "advance some frames and write the last one as svg",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&snapOut, "out", "frame.svg", "output file")
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 0, "frames to advance before writing")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark backends",
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&benchSize, "sizes", []int{1000, 2000, 4000, 8000}, "particle counts")
	benchCmd.Flags().IntVar(&benchStep, "steps", 20, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-8s %5d particles, %2d galaxies\n", name, cfg.Particles, cfg.Galaxies)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  printConfig,
	}
	configCmd.Flags().StringVar(&configOut, "out", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, snapshotCmd, benchCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then preset, then config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("galaxies") {
		cfg.Galaxies = galaxies
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSimulator builds the simulator for cmd. Backends that need a GL
// context are refused unless the caller is the window.
func newSimulator(cmd *cobra.Command, window bool) (*sim.Simulator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !window {
		if err := headless(cfg); err != nil {
			return nil, err
		}
	}
	s, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("initialized", "particles", cfg.Particles, "galaxies", cfg.Galaxies, "backend", s.BackendName(), "seed", cfg.Seed)
	return s, nil
}

func headless(cfg *config.Config) error {
	if compute.RequiresWindow(cfg.Backend) {
		return fmt.Errorf("backend %q needs a GL context; use the window command", cfg.Backend)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewEnergyLoss(),
		metrics.NewPeakSpeed(),
		metrics.NewMomentum(),
		metrics.NewDispersion(),
	}
}

// progress logs frame counters at a fixed frame interval.
type progress struct {
	every int
	s     *sim.Simulator
}

func (p *progress) OnFrame(_ *shader.Frame, info sim.FrameInfo) {
	if p.every > 0 && info.Frame%p.every == 0 {
		logger.Info("progress", "frame", info.Frame, "steps", info.Steps, "ke", p.s.Store().KineticEnergy())
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if ensemble > 1 {
		return runEnsemble(ctx, cmd)
	}

	s, err := newSimulator(cmd, false)
	if err != nil {
		return err
	}
	ms := newMetrics()
	ke := ms[0].(*metrics.KineticEnergy)
	for _, m := range ms {
		s.AddMetric(m)
	}
	s.AddObserver(&progress{every: logEvery, s: s})

	start := time.Now()
	result, err := s.Run(ctx, frames)
	if err != nil && ctx.Err() == nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%d frames, %d steps, t=%.4f in %v (%.0f steps/sec)\n\n",
		result.Frames, result.Steps, result.Time, elapsed.Round(time.Millisecond), float64(result.Steps)/elapsed.Seconds())
	printMetrics(result.Metrics)

	if plot && len(ke.History()) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ke.History(), asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("kinetic energy")))
	}

	if energySVG != "" {
		f, err := os.Create(energySVG)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteSeriesSVG(f, ke.History(), 800, 300, "#00ff88"); err != nil {
			return err
		}
		logger.Info("wrote energy series", "path", energySVG)
	}
	return nil
}

func runEnsemble(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := headless(cfg); err != nil {
		return err
	}

	logger.Info("running ensemble", "runs", ensemble, "frames", frames)
	results, err := sim.NewEnsemble(cfg, ensemble, newMetrics).Run(ctx, frames)
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\tSTEPS\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d", r.Seed, r.Steps)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func printMetrics(values map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(values) {
		fmt.Fprintf(w, "%s\t%.6f\n", name, values[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd, false)
	if err != nil {
		return err
	}

	// log lines would tear the alt screen
	logger.SetLevel(log.ErrorLevel)

	final, err := tea.NewProgram(viz.NewLive(s, 60, 30), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return final.(viz.Live).Err()
}

func runWindow(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd, true)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("opening window", "title", gui.Title, "particles", s.Config().Particles)
	if err := gui.Run(ctx, s); err != nil && ctx.Err() == nil {
		return err
	}
	info := s.Info()
	logger.Info("closed", "frames", info.Frame, "steps", info.Steps)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd, false)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if snapFrames > 0 {
		if _, err := s.Run(ctx, snapFrames); err != nil {
			return err
		}
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, s.Frame(), s.Config().Render); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "path", snapOut, "frame", s.Info().Frame)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d steps per size\n\n", benchStep)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tPARTICLES\tTIME\tSTEPS/SEC\tPAIRS/SEC")

	for _, name := range compute.Names() {
		if compute.RequiresWindow(name) {
			continue
		}
		for _, n := range benchSize {
			cfg := base.Clone()
			cfg.Backend = name
			cfg.Particles = config.FitParticles(n, cfg.Galaxies)

			s, err := sim.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchStep; i++ {
				if err := s.Step(); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			rate := float64(benchStep) / elapsed.Seconds()
			pairs := rate * float64(cfg.Particles) * float64(cfg.Particles-1)
			fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.3g\n", name, cfg.Particles, elapsed.Round(time.Millisecond), rate, pairs)
		}
	}
	return w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if configOut != "" {
		if err := config.Save(configOut, cfg); err != nil {
			return err
		}
		logger.Info("saved config", "path", configOut)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
