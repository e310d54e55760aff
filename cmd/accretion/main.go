package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/experiment"
	"github.com/san-kum/accretion/internal/optim"
	"github.com/san-kum/accretion/internal/storage"
	"github.com/san-kum/accretion/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	configFile string
	preset     string
	batchRuns  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accretion",
		Short: "gravitational accretion game core",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".accretion", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session with the autopilot",
		RunE:  runSession,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 120.0, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play in the terminal with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run a seed ensemble and summarize",
		RunE:  runBatch,
	}
	batchCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	batchCmd.Flags().Float64Var(&duration, "time", 120.0, "duration per run")
	batchCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	batchCmd.Flags().IntVar(&batchRuns, "runs", 8, "number of runs")
	batchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	batchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search tuning parameters with the autopilot",
		RunE:  runTune,
	}
	tuneCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	tuneCmd.Flags().Float64Var(&duration, "time", 60.0, "duration per run")
	tuneCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	tuneCmd.Flags().IntVar(&batchRuns, "runs", 4, "runs per grid point")
	tuneCmd.Flags().StringVar(&preset, "preset", "", "base preset")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run timeline",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run timeline to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config init [path]",
		Short: "write the default configuration to a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "accretion.yaml"
			if len(args) > 1 {
				path = args[1]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, batchCmd, scenarioCmd, tuneCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running session (%.0fs, dt=%.4fs, seed=%d)...\n", duration, dt, seed)
	start := time.Now()

	result, err := experiment.New(experiment.Config{
		Tuning:   cfg,
		Dt:       dt,
		Duration: duration,
		Seed:     seed,
	}).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	presetName := preset
	if presetName == "" {
		presetName = "classic"
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:  presetName,
		Seed:    seed,
		Dt:      dt,
		Outcome: result.Outcome,
		Metrics: result.Metrics,
	}, result.Timeline)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	m := result.Metrics
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OUTCOME\tSCORE\tSURVIVAL\tPEAK DIAM\tCONSUMED\tMISSED\tMERGES\tPRUNED")
	fmt.Fprintf(w, "%s\t%.0f\t%.1fs\t%.1f\t%.0f\t%.0f\t%.0f\t%.0f\n",
		result.Outcome,
		m["score"],
		m["survival_time"],
		m["peak_diameter"],
		m["correct"],
		m["missed"],
		m["merges"],
		m["pruned"],
	)
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	base := experiment.Config{
		Preset:   preset,
		Dt:       dt,
		Duration: duration,
	}
	if configFile != "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		base.Tuning = cfg
	}

	fmt.Printf("running %d sessions (%.0fs each, dt=%.4fs)...\n", batchRuns, duration, dt)
	start := time.Now()

	results, err := experiment.NewEnsemble(base, batchRuns, seed).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tOUTCOME\tSCORE\tSURVIVAL\tPEAK DIAM\tMERGES")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%.1fs\t%.1f\t%.0f\n",
			r.Seed, r.Outcome,
			r.Metrics["score"], r.Metrics["survival_time"],
			r.Metrics["peak_diameter"], r.Metrics["merges"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := experiment.Summarize(results)
	fmt.Printf("\nmean score: %.1f  best score: %.0f  mean survival: %.1fs\n",
		s.MeanScore, s.BestScore, s.MeanLife)
	for outcome, n := range s.Outcomes {
		fmt.Printf("  %s: %d\n", outcome, n)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := experiment.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	outcomes, err := experiment.RunScenario(context.Background(), scenario)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRUNS\tMEAN SCORE\tBEST\tMEAN SURVIVAL")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.0f\t%.1fs\n",
			o.Step.Preset, o.Summary.Runs,
			o.Summary.MeanScore, o.Summary.BestScore, o.Summary.MeanLife)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	grid := optim.NewGridSearch([]optim.Param{
		{
			Name:   "gravity.g",
			Values: []float64{80, 120, 160},
			Apply:  func(c *config.Config, v float64) { c.Gravity.G = v },
		},
		{
			Name:   "spawn.orb_interval",
			Values: []float64{0.5, 0.8, 1.2},
			Apply:  func(c *config.Config, v float64) { c.Spawn.OrbInterval = v },
		},
	})

	base := experiment.Config{
		Preset:   preset,
		Dt:       dt,
		Duration: duration,
	}

	fmt.Printf("searching %d grid points, %d runs each...\n", 9, batchRuns)
	best, score, err := grid.Search(context.Background(), base, batchRuns, seed)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest mean score: %.1f\n", score)
	for k, v := range best {
		fmt.Printf("  %s: %g\n", k, v)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg, seed, dt)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tOUTCOME\tSCORE\tSURVIVAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%.1fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Metrics["score"],
			run.Metrics["survival_time"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	points, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("outcome: %s\n", meta.Outcome)
	fmt.Printf("samples: %d\n\n", len(points))

	series := []struct {
		caption string
		value   func(storage.TimelinePoint) float64
	}{
		{"collector diameter", func(p storage.TimelinePoint) float64 { return p.Diameter }},
		{"score", func(p storage.TimelinePoint) float64 { return float64(p.Score) }},
		{"orb count", func(p storage.TimelinePoint) float64 { return float64(p.Orbs) }},
	}

	for _, s := range series {
		data := make([]float64, len(points))
		for i, p := range points {
			data[i] = s.value(p)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	points, err := st.LoadTimeline(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"t", "diameter", "orbs", "score", "merges"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			strconv.FormatFloat(p.T, 'f', 4, 64),
			strconv.FormatFloat(p.Diameter, 'f', 3, 64),
			strconv.Itoa(p.Orbs),
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Merges),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
