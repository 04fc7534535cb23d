// Command jump-analyse reads a pose keypoints document, decides for every
// tracked person whether they jumped, and prints the launch and landing
// frames with the implied jump height and takeoff velocity.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/jump.report/internal/config"
	"github.com/banshee-data/jump.report/internal/jump"
	"github.com/banshee-data/jump.report/internal/monitoring"
	"github.com/banshee-data/jump.report/internal/pose"
	"github.com/banshee-data/jump.report/internal/report"
	"github.com/banshee-data/jump.report/internal/storage/sqlite"
	"github.com/banshee-data/jump.report/internal/units"
	"github.com/banshee-data/jump.report/internal/version"
)

// Options holds the command line configuration.
type Options struct {
	KeypointsFile string
	ConfigFile    string
	FPS           float64
	Strategy      string
	Landmarks     string
	DBPath        string
	PlotDir       string
	HTMLFile      string
	JSONFile      string
	Units         string
	Verbose       bool
	Quiet         bool
	ShowVersion   bool
}

func main() {
	opts := parseFlags(flag.CommandLine, os.Args[1:])

	if opts.ShowVersion {
		fmt.Println(version.String("jump-analyse"))
		return
	}
	if opts.KeypointsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: keypoints file is required")
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) Options {
	var o Options

	fs.StringVar(&o.KeypointsFile, "keypoints", "", "Path to keypoints JSON (required)")
	fs.StringVar(&o.ConfigFile, "config", "", "Tuning config JSON (optional)")
	fs.Float64Var(&o.FPS, "fps", 0, "Video frame rate; overrides config when > 0")
	fs.StringVar(&o.Strategy, "strategy", "", "Interval finder: exhaustive or peak; overrides config")
	fs.StringVar(&o.Landmarks, "landmarks", "", "Landmarks: left_hip, hips or ankles; overrides config")
	fs.StringVar(&o.DBPath, "db", "", "SQLite database path (optional, for persistence)")
	fs.StringVar(&o.PlotDir, "plots", "", "Directory for per-track PNG plots (optional)")
	fs.StringVar(&o.HTMLFile, "html", "", "Write an interactive HTML report to this path (optional)")
	fs.StringVar(&o.JSONFile, "json", "", "Write records as JSON to this path (optional)")
	fs.StringVar(&o.Units, "units", units.MPS, "Speed units for printed output: "+units.GetValidUnitsString())
	fs.BoolVar(&o.Verbose, "v", false, "Verbose output")
	fs.BoolVar(&o.Quiet, "q", false, "Suppress per-track log lines")
	fs.BoolVar(&o.ShowVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s -keypoints FILE [options]\n\n", fs.Name())
		fmt.Fprintf(fs.Output(), "Detects vertical jumps in tracked pose keypoints.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nExamples:\n")
		fmt.Fprintf(fs.Output(), "  %s -keypoints keypoints.json\n", fs.Name())
		fmt.Fprintf(fs.Output(), "  %s -keypoints keypoints.json -strategy peak -landmarks left_hip\n", fs.Name())
		fmt.Fprintf(fs.Output(), "  %s -keypoints keypoints.json -db jumps.db -plots ./plots -html report.html\n", fs.Name())
	}

	_ = fs.Parse(args)
	return o
}

// loadTuning reads the config file (if any) and applies flag overrides.
func loadTuning(o Options) (*config.TuningConfig, error) {
	cfg := config.EmptyTuningConfig()
	if o.ConfigFile != "" {
		var err error
		cfg, err = config.LoadTuningConfig(o.ConfigFile)
		if err != nil {
			return nil, err
		}
	}
	if o.FPS > 0 {
		cfg.FPS = &o.FPS
	}
	if o.Strategy != "" {
		cfg.Strategy = &o.Strategy
	}
	if o.Landmarks != "" {
		cfg.Landmarks = &o.Landmarks
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, o Options, out io.Writer) error {
	if !units.IsValid(o.Units) {
		return fmt.Errorf("invalid units %q, want one of %s", o.Units, units.GetValidUnitsString())
	}
	monitoring.SetVerbose(o.Verbose)
	if o.Quiet {
		monitoring.SetLogger(nil)
	}

	tuning, err := loadTuning(o)
	if err != nil {
		return err
	}
	cfg := jump.ConfigFromTuning(tuning)

	tracks, err := pose.LoadTracksFile(o.KeypointsFile)
	if err != nil {
		return err
	}
	monitoring.Debugf("loaded %d tracks from %s", len(tracks), o.KeypointsFile)

	analyzer := jump.NewAnalyzer(cfg)
	analyses := analyzer.InspectAll(ctx, tracks)

	records := make([]jump.Record, 0, len(analyses))
	for _, id := range tracks.IDs() {
		records = append(records, analyses[id].Record)
	}
	printSummary(out, records, o.Units)

	if o.JSONFile != "" {
		if err := writeJSON(o.JSONFile, records); err != nil {
			return err
		}
	}

	if o.DBPath != "" {
		runID, err := persist(o, tuning, analyzer.Finder().Name(), cfg.FPS, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored run %s in %s\n", runID, o.DBPath)
	}

	if o.PlotDir != "" {
		paths, err := report.PlotAll(o.PlotDir, analyses)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d plots to %s\n", len(paths), o.PlotDir)
	}

	if o.HTMLFile != "" {
		err := report.WriteHTMLFile(o.HTMLFile, analyses, report.HTMLOptions{
			Title:       "Jump report: " + o.KeypointsFile,
			HeightUnits: units.HeightUnitsFor(o.Units),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote HTML report to %s\n", o.HTMLFile)
	}

	return ctx.Err()
}

func printSummary(w io.Writer, records []jump.Record, speedUnits string) {
	heightUnits := units.HeightUnitsFor(speedUnits)
	jumps := 0
	for _, r := range records {
		if !r.Jumping {
			fmt.Fprintf(w, "Track %d: %s\n", r.TrackID, r.Status)
			continue
		}
		jumps++
		fmt.Fprintf(w, "Track %d: launch frame %d, landing frame %d, air time %.3f s, height %.1f %s, takeoff %.2f %s\n",
			r.TrackID, *r.LaunchFrame, *r.LandingFrame, r.AirTimeSeconds,
			units.ConvertHeight(r.JumpHeightCM, heightUnits), units.HeightLabel(heightUnits),
			units.ConvertSpeed(r.LaunchVelocityMPS, speedUnits), units.SpeedLabel(speedUnits))
	}
	fmt.Fprintf(w, "%d of %d tracks jumped\n", jumps, len(records))
}

func writeJSON(path string, records []jump.Record) error {
	byTrack := make(map[int]jump.Record, len(records))
	for _, r := range records {
		byTrack[r.TrackID] = r
	}
	data, err := json.MarshalIndent(byTrack, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func persist(o Options, tuning *config.TuningConfig, strategy string, fps float64, records []jump.Record) (string, error) {
	db, err := sqlite.Open(o.DBPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	params, err := json.Marshal(tuning)
	if err != nil {
		return "", fmt.Errorf("marshal tuning: %w", err)
	}

	run := &sqlite.Run{
		SourcePath: o.KeypointsFile,
		Strategy:   strategy,
		FPS:        fps,
		ParamsJSON: params,
	}
	if err := sqlite.NewRunStore(db).Insert(run, records); err != nil {
		return "", fmt.Errorf("store run: %w", err)
	}
	return run.RunID, nil
}
