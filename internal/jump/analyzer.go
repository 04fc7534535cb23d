package jump

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/jump.report/internal/monitoring"
	"github.com/banshee-data/jump.report/internal/pose"
)

// Analysis is the full working state behind one Record, kept for plotting
// and persistence. Trajectories and Interval are zero when analysis stopped
// before reaching them.
type Analysis struct {
	Record       Record
	Trajectories []Trajectory
	Interval     *Interval
	Verdict      *Verdict
	Err          error
}

// Analyzer turns pose tracks into jump Records.
type Analyzer struct {
	cfg        Config
	finder     IntervalFinder
	classifier Classifier
}

// NewAnalyzer creates an Analyzer using the finder selected by cfg.Strategy.
func NewAnalyzer(cfg Config) *Analyzer {
	return NewAnalyzerWithFinder(cfg, NewFinder(cfg))
}

// NewAnalyzerWithFinder creates an Analyzer with an explicit finder.
func NewAnalyzerWithFinder(cfg Config, finder IntervalFinder) *Analyzer {
	if len(cfg.Landmarks) == 0 {
		cfg.Landmarks = LandmarkIndices("")
	}
	return &Analyzer{
		cfg:        cfg,
		finder:     finder,
		classifier: Classifier{MidpointTolerance: cfg.MidpointTolerance},
	}
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Finder returns the interval finder in use.
func (a *Analyzer) Finder() IntervalFinder {
	return a.finder
}

// AnalyzeTrack produces the Record for one track. It never fails: every
// problem is reported as a not-jumping or undetermined Record.
func (a *Analyzer) AnalyzeTrack(ctx context.Context, track *pose.Track) Record {
	return a.Inspect(ctx, track).Record
}

// Inspect runs the pipeline for one track and returns its intermediate state.
func (a *Analyzer) Inspect(ctx context.Context, track *pose.Track) Analysis {
	an := a.inspect(ctx, track)
	monitoring.Logf("%s", an.Record)
	return an
}

func (a *Analyzer) inspect(ctx context.Context, track *pose.Track) Analysis {
	strategy := a.finder.Name()
	if track == nil {
		return Analysis{Record: notJumpingRecord(0, strategy, "no track"), Err: ErrTrackTooShort}
	}
	id := track.ID

	if track.Len() < a.cfg.MinTrackFrames {
		err := fmt.Errorf("%w: %d frames, need %d", ErrTrackTooShort, track.Len(), a.cfg.MinTrackFrames)
		return Analysis{Record: notJumpingRecord(id, strategy, err.Error()), Err: err}
	}

	trajs, err := ExtractTrajectories(track, a.cfg.Landmarks...)
	if err != nil {
		return Analysis{Record: notJumpingRecord(id, strategy, err.Error()), Err: err}
	}
	if a.cfg.Smoothing {
		for i := range trajs {
			trajs[i] = trajs[i].Smooth(a.cfg.SmoothingSigma)
		}
	}

	an := Analysis{Trajectories: trajs}

	interval, err := a.finder.FindInterval(ctx, trajs)
	if err != nil {
		an.Err = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			an.Record = undeterminedRecord(id, strategy, err)
		} else {
			an.Record = notJumpingRecord(id, strategy, err.Error())
		}
		return an
	}
	an.Interval = &interval

	if interval.NeedsScreening {
		verdict := a.classifier.Classify(interval.Split, interval.Fits)
		an.Verdict = &verdict
		if !verdict.Accepted {
			an.Record = notJumpingRecord(id, strategy, "rejected: "+verdict.Reason)
			return an
		}
	}

	corrected := a.cfg.Correction.Apply(interval.Split)
	if corrected.Landing <= corrected.Launch {
		an.Record = notJumpingRecord(id, strategy,
			fmt.Sprintf("corrected interval [%d, %d] is empty", corrected.Launch, corrected.Landing))
		return an
	}

	an.Record = jumpingRecord(id, strategy, corrected, a.cfg.FPS)
	return an
}

// Analyze produces one Record per track. Tracks are independent and run
// concurrently, bounded by Config.TrackWorkers (0 means one per CPU).
func (a *Analyzer) Analyze(ctx context.Context, tracks pose.Tracks) map[int]Record {
	analyses := a.InspectAll(ctx, tracks)
	out := make(map[int]Record, len(analyses))
	for id, an := range analyses {
		out[id] = an.Record
	}
	return out
}

// InspectAll is Analyze returning the intermediate state for every track.
func (a *Analyzer) InspectAll(ctx context.Context, tracks pose.Tracks) map[int]Analysis {
	ids := tracks.IDs()
	results := make([]Analysis, len(ids))

	workers := a.cfg.TrackWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			track := tracks[id]
			if track == nil {
				track = pose.NewTrack(id)
			} else if track.ID != id {
				// map key is authoritative
				cp := *track
				cp.ID = id
				track = &cp
			}
			results[i] = a.Inspect(ctx, track)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int]Analysis, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out
}
