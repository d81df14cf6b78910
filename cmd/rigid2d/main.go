package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigid2d"
	"github.com/san-kum/rigid2d/internal/export"
	"github.com/san-kum/rigid2d/internal/record"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/viewer"
	"github.com/san-kum/rigid2d/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	sample     int
	noIndex    bool
	limit      int
	outFile    string
	addr       string
	serveRunID string
	frameIndex int
	trajBody   string
)

// main registers the command tree. Bare invocation drops into the live
// view of the bouncing preset.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rigid2d",
		Short: "2d rigid body physics sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return liveScene(cmd, []string{"bouncing"})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigid2d", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml) instead of a preset")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration override")
	runCmd.Flags().IntVar(&sample, "sample", 1, "record every nth step")
	runCmd.Flags().BoolVar(&noIndex, "no-index", false, "skip the sqlite index")

	demoCmd := &cobra.Command{
		Use:   "demo [scene]",
		Short: "run a scene headless and plot a body's height",
		Args:  cobra.MaximumNArgs(1),
		RunE:  demoScene,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "step a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveScene,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml) instead of a preset")
	liveCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep override")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a recorded run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream a scene (or recorded run) to browsers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveScene,
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml) instead of a preset")
	serveCmd.Flags().StringVar(&addr, "addr", ":8420", "listen address")
	serveCmd.Flags().StringVar(&serveRunID, "run", "", "serve a recorded run instead of a live scene")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [body]",
		Short: "plot a body's motion from a recorded run",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [run_id]",
		Short: "summarize indexed runs or plot one run's energy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  statsRuns,
	}
	statsCmd.Flags().IntVar(&limit, "limit", 20, "max runs to show")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark stepping a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml) instead of a preset")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		RunE:  listScenes,
	}

	sceneCmd := &cobra.Command{
		Use:   "scene [name]",
		Short: "print a built-in scene as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  showScene,
	}
	sceneCmd.Flags().StringVar(&outFile, "out", "", "write to a file instead of stdout")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "write to a file instead of stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output file (defaults to <run_id>.csv)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVGRun,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (defaults to <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame to render (-1 for the last)")
	exportSVGCmd.Flags().StringVar(&trajBody, "trajectory", "", "render this body's path instead of a frame")

	rootCmd.AddCommand(runCmd, demoCmd, listCmd, liveCmd, replayCmd, serveCmd, plotCmd, statsCmd, benchCmd, scenesCmd, sceneCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveScene picks the scene: --config wins, otherwise the positional
// argument names a preset. Flag overrides apply on top.
func resolveScene(cmd *cobra.Command, args []string) (*scene.Scene, error) {
	var sc *scene.Scene
	if configFile != "" {
		loaded, err := scene.Load(configFile)
		if err != nil {
			return nil, err
		}
		sc = loaded
	} else {
		if len(args) == 0 {
			return nil, fmt.Errorf("need a scene name or --config (scenes: %s)", strings.Join(scene.ListPresets(), ", "))
		}
		preset := scene.GetPreset(args[0])
		if preset == nil {
			return nil, fmt.Errorf("unknown scene: %s (scenes: %s)", args[0], strings.Join(scene.ListPresets(), ", "))
		}
		own := *preset
		sc = &own
	}
	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	return sc, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	st := record.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := sc.Build()
	if err != nil {
		return err
	}
	defer w.Close()

	if sample < 1 {
		sample = 1
	}
	steps := w.Steps()

	fmt.Printf("running %s for %d steps...\n", w.Scene.Name, steps)
	start := time.Now()

	frames := make([]record.Frame, 0, steps/sample+1)
	frames = append(frames, record.Capture(w.Space, 0, 0))
	for i := 1; i <= steps; i++ {
		w.Step()
		if i%sample == 0 || i == steps {
			frames = append(frames, record.Capture(w.Space, uint64(i), float64(i)*w.Scene.Dt))
		}
	}
	elapsed := time.Since(start)

	runID, err := st.Save(w.Scene.Name, w.Scene.Dt, w.Scene.Duration, w.BodyNames(), frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(frames))

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if !noIndex {
		if err := indexRun(meta, frames); err != nil {
			fmt.Printf("index skipped: %v\n", err)
		}
	}
	return nil
}

// demoScene steps a scene to completion and plots the height of its
// first moving body. Nothing is recorded.
func demoScene(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"bouncing"}
	}
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	target := ""
	for i := range sc.Bodies {
		if sc.Bodies[i].Type == "static" {
			continue
		}
		target = sc.Bodies[i].Name
		if target == "" {
			target = fmt.Sprintf("body%d", i)
		}
		break
	}
	if target == "" {
		return fmt.Errorf("scene %s has no moving bodies", sc.Name)
	}

	w, err := sc.Build()
	if err != nil {
		return err
	}
	defer w.Close()

	h, ok := w.Body(target)
	if !ok {
		return fmt.Errorf("unknown body: %s", target)
	}
	read := func() (y, vy float64) {
		h.Read(func(b *rigid2d.Body) {
			y = b.Position().Y
			vy = b.Velocity().Y
		})
		return
	}

	steps := w.Steps()
	ys := make([]float64, 0, steps+1)
	y, _ := read()
	ys = append(ys, y)
	for i := 0; i < steps; i++ {
		w.Step()
		y, _ = read()
		ys = append(ys, y)
	}

	graph := asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s height over %.1fs", target, sc.Duration)),
	)
	fmt.Println(graph)

	y, vy := read()
	fmt.Printf("\nfinal: y=%.2f vy=%.2f after %d steps\n", y, vy, steps)
	return nil
}

// indexRun mirrors a saved run into the sqlite index. The run
// directory stays the source of truth, so failures are not fatal.
func indexRun(meta *record.RunMetadata, frames []record.Frame) error {
	ix, err := record.OpenIndex(filepath.Join(dataDir, "index.db"))
	if err != nil {
		return err
	}
	defer ix.Close()

	ix.RecordRun(meta)
	for i := range frames {
		ix.RecordSample(meta.ID, &frames[i])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBODIES\tFRAMES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Bodies),
			run.Steps,
		)
	}
	return w.Flush()
}

func liveScene(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	w, err := sc.Build()
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLiveModel(w))
	final, err := p.Run()
	if m, ok := final.(viz.Model); ok {
		m.Close()
	}
	return err
}

func replayRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := record.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	p := tea.NewProgram(viz.NewReplayModel(meta.Scene, frames))
	_, err = p.Run()
	return err
}

func serveScene(cmd *cobra.Command, args []string) error {
	var srv *viewer.Server
	if serveRunID != "" {
		st := record.New(dataDir)
		meta, err := st.Load(serveRunID)
		if err != nil {
			return err
		}
		frames, err := st.LoadFrames(serveRunID)
		if err != nil {
			return err
		}
		if len(frames) == 0 {
			return fmt.Errorf("run %s has no frames", serveRunID)
		}
		srv = viewer.NewReplayServer(meta.Scene, meta.Dt, frames)
	} else {
		sc, err := resolveScene(cmd, args)
		if err != nil {
			return err
		}
		w, err := sc.Build()
		if err != nil {
			return err
		}
		srv = viewer.NewLiveServer(w)
	}

	ctx, cancel := signalContext()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Run(ctx)
	}()

	mux := http.NewServeMux()
	srv.Routes(mux)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	fmt.Printf("listening on %s\n", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	cancel()
	<-done
	srv.Close()
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := record.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	idx := 0
	name := ""
	if len(args) > 1 {
		name = args[1]
		idx = -1
		for i, b := range meta.Bodies {
			if b == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("unknown body: %s (bodies: %s)", name, strings.Join(meta.Bodies, ", "))
		}
	} else if len(meta.Bodies) > 0 {
		name = meta.Bodies[0]
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %s\n\n", name)

	series := []struct {
		caption string
		pick    func(b *record.BodyFrame) float64
	}{
		{"x position", func(b *record.BodyFrame) float64 { return b.X }},
		{"y position", func(b *record.BodyFrame) float64 { return b.Y }},
		{"x velocity", func(b *record.BodyFrame) float64 { return b.VX }},
		{"y velocity", func(b *record.BodyFrame) float64 { return b.VY }},
	}
	for _, sr := range series {
		data := make([]float64, 0, len(frames))
		for i := range frames {
			if idx < len(frames[i].Bodies) {
				data = append(data, sr.pick(&frames[i].Bodies[idx]))
			}
		}
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func statsRuns(cmd *cobra.Command, args []string) error {
	ix, err := record.OpenIndex(filepath.Join(dataDir, "index.db"))
	if err != nil {
		return err
	}
	defer ix.Close()

	if len(args) == 0 {
		runs, err := ix.Runs(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no indexed runs")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tFINAL_E\tPEAK_E")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
				r.ID,
				r.Scene,
				r.Timestamp.Format("2006-01-02 15:04:05"),
				r.Steps,
				r.FinalEnergy,
				r.PeakEnergy,
			)
		}
		return w.Flush()
	}

	runID := args[0]
	energies, err := ix.EnergyProfile(runID)
	if err != nil {
		return err
	}
	if len(energies) == 0 {
		// Runs recorded with --no-index are still on disk.
		frames, err := record.New(dataDir).LoadFrames(runID)
		if err != nil {
			return err
		}
		energies = make([]float64, len(frames))
		for i := range frames {
			energies[i] = frames[i].Energy
		}
	}
	if len(energies) < 2 {
		return fmt.Errorf("not enough samples for %s", runID)
	}

	graph := asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	)
	fmt.Println(graph)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	timesteps := []float64{1.0 / 240, 1.0 / 120, 1.0 / 60}

	fmt.Printf("benchmarking %s\n\n", sc.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, h := range timesteps {
			run := *sc
			run.Dt = h
			run.Duration = dur

			world, err := run.Build()
			if err != nil {
				return err
			}
			steps := world.Steps()

			start := time.Now()
			for i := 0; i < steps; i++ {
				world.Step()
			}
			elapsed := time.Since(start)
			world.Close()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, h, steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func listScenes(cmd *cobra.Command, args []string) error {
	names := scene.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tGRAVITY\tDURATION")
	for _, name := range names {
		sc := scene.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t(%.0f, %.0f)\t%.1fs\n",
			name, len(sc.Bodies), sc.Gravity.X, sc.Gravity.Y, sc.Duration)
	}
	return w.Flush()
}

func showScene(cmd *cobra.Command, args []string) error {
	sc := scene.GetPreset(args[0])
	if sc == nil {
		return fmt.Errorf("unknown scene: %s (scenes: %s)", args[0], strings.Join(scene.ListPresets(), ", "))
	}

	if outFile != "" {
		if err := scene.Save(outFile, sc); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return record.ExportJSONStdout(meta, frames)
	}
	if err := record.ExportJSON(outFile, meta, frames); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(frames), outFile)
	return nil
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	out := outFile
	if out == "" {
		out = args[0] + ".csv"
	}
	if err := record.ExportCSV(out, frames); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(frames), out)
	return nil
}

func exportSVGRun(cmd *cobra.Command, args []string) error {
	st := record.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	var svg string
	if trajBody != "" {
		idx := -1
		for i, b := range meta.Bodies {
			if b == trajBody {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("unknown body: %s (bodies: %s)", trajBody, strings.Join(meta.Bodies, ", "))
		}
		svg = export.Trajectory(frames, idx, 800, 600)
	} else {
		i := frameIndex
		if i < 0 {
			i = len(frames) - 1
		}
		if i >= len(frames) {
			return fmt.Errorf("frame %d out of range (run has %d)", i, len(frames))
		}
		svg = export.Frame(&frames[i], 800, 600)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}

	out := outFile
	if out == "" {
		out = args[0] + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
