package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/scenario"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/tui"
)

var (
	dataDir      string
	theta        float64
	timeScale    float64
	duration     float64
	frameSeconds float64
	numBodies    int
	seed         int64
	workers      int
	maxDepth     int
	cellSize     float64
	substepping  bool
	configFile   string
	preset       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "gravitational n-body simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation and save the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "barnes-hut opening parameter (0 = direct)")
	runCmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated days per wall second")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated days")
	runCmd.Flags().Float64Var(&frameSeconds, "frame", config.DefaultFrame, "wall seconds per frame")
	runCmd.Flags().IntVar(&numBodies, "bodies", 100, "number of bodies (cluster)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed (cluster)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "force-pass goroutines (0 = all cpus)")
	runCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "octree depth cap (0 = default)")
	runCmd.Flags().Float64Var(&cellSize, "cell-size", 0, "collision cell size in km (0 = auto)")
	runCmd.Flags().BoolVar(&substepping, "substepping", true, "adaptive substepping")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body distances over a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "compare barnes-hut against the direct evaluator",
		Args:  cobra.ExactArgs(1),
		RunE:  compareEvaluators,
	}
	compareCmd.Flags().IntVar(&numBodies, "bodies", 500, "number of bodies (cluster)")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed (cluster)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force evaluation",
		RunE:  benchEvaluators,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "barnes-hut opening parameter")
	liveCmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated days per wall second")
	liveCmd.Flags().IntVar(&numBodies, "bodies", 100, "number of bodies (cluster)")
	liveCmd.Flags().Int64Var(&seed, "seed", 42, "random seed (cluster)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, compareCmd, benchCmd, liveCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges preset, config file, and flags: presets seed the
// defaults, the config file overrides them, and explicitly set flags win.
func buildConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = name

	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Scenario = name
	}

	if cmd.Flags().Changed("theta") {
		cfg.Theta = theta
	}
	if cmd.Flags().Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("frame") {
		cfg.FrameSeconds = frameSeconds
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if cmd.Flags().Changed("substepping") {
		cfg.Substepping = substepping
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	bodies, err := cfg.BuildBodies()
	if err != nil {
		return nil, err
	}
	if bodies == nil {
		bodies, err = scenario.Build(cfg.Scenario, numBodies, cfg.Seed)
		if err != nil {
			return nil, err
		}
	}

	eng := engine.New(cfg.EngineParams())
	for _, b := range bodies {
		eng.AddBody(b)
	}
	return eng, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	daysPerFrame := cfg.FrameSeconds * cfg.TimeScale
	if daysPerFrame <= 0 {
		return fmt.Errorf("frame and time-scale must be positive")
	}
	steps := int(math.Ceil(cfg.Duration / daysPerFrame))

	// Keep exports bounded regardless of step count.
	sampleEvery := steps/1000 + 1

	mets := []metrics.Metric{
		metrics.NewEnergyDrift(cfg.G),
		metrics.NewMomentumDrift(),
		metrics.NewStepTimer(),
	}

	bodies := eng.Bodies()
	result := &storage.Result{
		IDs:     make([]string, len(bodies)),
		Metrics: make(map[string]float64),
	}
	for i, b := range bodies {
		result.IDs[i] = b.ID
	}

	capture := func(day float64) {
		frame := make([]r3.Vec, len(bodies))
		for i, b := range bodies {
			frame[i] = b.Pos
		}
		result.Times = append(result.Times, day)
		result.Frames = append(result.Frames, frame)
	}

	fmt.Printf("running %s: %d bodies, %.0f simulated days, theta %.2f\n",
		cfg.Scenario, len(bodies), cfg.Duration, cfg.Theta)
	start := time.Now()

	day := 0.0
	capture(day)
	for _, m := range mets {
		m.Observe(bodies, day)
	}

	for i := 0; i < steps; i++ {
		eng.Step(cfg.FrameSeconds)
		day += daysPerFrame

		if (i+1)%sampleEvery == 0 || i == steps-1 {
			capture(day)
			for _, m := range mets {
				m.Observe(bodies, day)
			}
		}
	}

	elapsed := time.Since(start)

	for _, m := range mets {
		result.Metrics[m.Name()] = m.Value()
	}

	runID, err := st.Save(cfg.Scenario, cfg.TimeScale, cfg.Theta, cfg.Duration, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	if eng.UsedFallback() {
		fmt.Println("note: last step used the direct evaluator")
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDAYS\tSCALE\tTHETA\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.4g\t%.2f\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.TimeScale,
			run.Theta,
			run.Bodies,
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

	states, _, ids, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states))

	maxPlots := 6
	if len(ids) < maxPlots {
		maxPlots = len(ids)
	}

	for bi := 0; bi < maxPlots; bi++ {
		data := make([]float64, len(states))
		for i := range states {
			col := bi * 3
			if col+2 >= len(states[i]) {
				continue
			}
			x, y, z := states[i][col], states[i][col+1], states[i][col+2]
			data[i] = math.Sqrt(x*x + y*y + z*z)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s distance from origin (km)", ids[bi])),
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
	states, times, ids, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for _, id := range ids {
		header = append(header, id+"_x", id+"_y", id+"_z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, ids, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	frames := make([][]r3.Vec, len(states))
	for i, row := range states {
		frame := make([]r3.Vec, 0, len(row)/3)
		for j := 0; j+2 < len(row); j += 3 {
			frame = append(frame, r3.Vec{X: row[j], Y: row[j+1], Z: row[j+2]})
		}
		frames[i] = frame
	}

	result := &storage.Result{
		IDs:     ids,
		Times:   times,
		Frames:  frames,
		Metrics: meta.Metrics,
	}

	return storage.ExportJSONStdout(meta.Scenario, meta.TimeScale, meta.Theta, meta.Duration, result)
}

func compareEvaluators(cmd *cobra.Command, args []string) error {
	bodies, err := scenario.Build(args[0], numBodies, seed)
	if err != nil {
		return err
	}

	direct := engine.NewDirect(scenario.G)

	engine.ResetAccelerations(bodies)
	start := time.Now()
	if err := direct.Accelerate(bodies); err != nil {
		return err
	}
	directTime := time.Since(start)

	ref := make([]r3.Vec, len(bodies))
	for i, b := range bodies {
		ref[i] = b.Acceleration()
	}

	fmt.Printf("comparing evaluators: %s, %d bodies\n\n", args[0], len(bodies))
	fmt.Printf("%-12s  %-12s  %-12s\n", "evaluator", "time_ms", "max_rel_err")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%-12s  %12.2f  %12s\n", "direct", float64(directTime.Microseconds())/1000, "-")

	for _, th := range []float64{0.9, 0.5, 0.2, 0.1} {
		bh := engine.NewBarnesHut(scenario.G, th, 0)

		engine.ResetAccelerations(bodies)
		start := time.Now()
		if err := bh.Accelerate(bodies); err != nil {
			return err
		}
		elapsed := time.Since(start)

		maxErr := 0.0
		for i, b := range bodies {
			refNorm := r3.Norm(ref[i])
			if refNorm == 0 {
				continue
			}
			if e := r3.Norm(b.Acceleration().Sub(ref[i])) / refNorm; e > maxErr {
				maxErr = e
			}
		}

		name := fmt.Sprintf("bh %.1f", th)
		fmt.Printf("%-12s  %12.2f  %12.2e\n", name, float64(elapsed.Microseconds())/1000, maxErr)
	}

	return nil
}

func benchEvaluators(cmd *cobra.Command, args []string) error {
	sizes := []int{100, 500, 1000}
	const reps = 5

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tEVALUATOR\tPASS\tPASSES/SEC")

	for _, n := range sizes {
		bodies, err := scenario.Build("cluster", n, 42)
		if err != nil {
			return err
		}

		direct := engine.NewDirect(scenario.G)
		bh := engine.NewBarnesHut(scenario.G, config.DefaultTheta, 0)

		evals := []struct {
			name string
			ev   engine.Evaluator
		}{
			{"direct", direct},
			{"barnes-hut", bh},
		}

		for _, e := range evals {
			start := time.Now()
			for r := 0; r < reps; r++ {
				engine.ResetAccelerations(bodies)
				if err := e.ev.Accelerate(bodies); err != nil {
					return err
				}
			}
			elapsed := time.Since(start) / reps

			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\n",
				n, e.name, elapsed, 1/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(eng, cfg.Scenario)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
