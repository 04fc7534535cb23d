package jump

import (
	"context"
	"fmt"

	"github.com/banshee-data/jump.report/internal/config"
)

// Interval is a finder's best airborne interval for one track.
type Interval struct {
	Split
	Loss float64     `json:"loss"`
	Fits []Quadratic `json:"fits,omitempty"`
	// NeedsScreening is set by finders whose result must still pass the
	// plausibility classifier.
	NeedsScreening bool `json:"needs_screening"`
}

// IntervalFinder locates the single best airborne interval in one or more
// trajectories of the same track. Implementations must be safe for
// concurrent use across tracks.
type IntervalFinder interface {
	// Name returns the strategy name for logging and records.
	Name() string

	// FindInterval returns the best interval or an error explaining why
	// none exists. Context errors are returned unwrapped.
	FindInterval(ctx context.Context, trajs []Trajectory) (Interval, error)
}

// NewFinder builds the finder selected by cfg.Strategy.
func NewFinder(cfg Config) IntervalFinder {
	switch cfg.Strategy {
	case config.StrategyPeak:
		return &PeakFinder{
			Window:        cfg.PeakWindow,
			Threshold:     cfg.PeakThreshold,
			MinProminence: cfg.PeakProminence,
			SeekMinimum:   cfg.PeakSeekMinimum,
		}
	default:
		return &ExhaustiveFinder{
			Model:        SegmentModel{OutlierSigma: cfg.OutlierSigma},
			MinGapSingle: cfg.MinGapSingle,
			MinGapPair:   cfg.MinGapPair,
			Workers:      cfg.SearchWorkers,
		}
	}
}

func checkTrajectories(trajs []Trajectory, maxCount int) error {
	if len(trajs) == 0 || len(trajs) > maxCount {
		return fmt.Errorf("want 1 to %d trajectories, got %d", maxCount, len(trajs))
	}
	n := trajs[0].Len()
	for _, t := range trajs[1:] {
		if t.Len() != n {
			return fmt.Errorf("trajectory lengths differ: %d vs %d", n, t.Len())
		}
		for i := range t.Frames {
			if t.Frames[i] != trajs[0].Frames[i] {
				return fmt.Errorf("trajectories disagree on frame at sample %d", i)
			}
		}
	}
	return nil
}
