package jump

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/jump.report/internal/monitoring"
)

// ExhaustiveFinder evaluates the segment model at every (launch, landing)
// pair and keeps the minimum total loss. With two trajectories (a symmetric
// landmark pair) losses are summed and both fits must be feasible.
//
// Cost is O(F²) candidates, each O(F) to fit, for F frames in the track.
// That is fine for a few hundred frames; longer tracks should be windowed
// by the caller.
type ExhaustiveFinder struct {
	Model SegmentModel

	// MinGapSingle and MinGapPair bound landing ≥ launch+gap for one and
	// two trajectories respectively. Values below 1 are treated as 1.
	MinGapSingle int
	MinGapPair   int

	// Workers scans launch rows concurrently when above 1.
	Workers int
}

// Name implements IntervalFinder.
func (f *ExhaustiveFinder) Name() string {
	return "exhaustive"
}

// rowBest is the best candidate within one launch row.
type rowBest struct {
	found bool
	split Split
	loss  float64
	fits  []Quadratic
}

// FindInterval implements IntervalFinder. Ties keep the first minimum in
// row-major order (launch, then landing), including when rows are scanned
// concurrently.
func (f *ExhaustiveFinder) FindInterval(ctx context.Context, trajs []Trajectory) (Interval, error) {
	if err := checkTrajectories(trajs, 2); err != nil {
		return Interval{}, err
	}
	if trajs[0].Len() < 2 {
		return Interval{}, ErrNoFeasibleSplit
	}

	gap := f.MinGapSingle
	if len(trajs) == 2 {
		gap = f.MinGapPair
	}
	if gap < 1 {
		gap = 1
	}

	frames := trajs[0].Frames
	times := frameTimes(frames)
	first, last := frames[0], frames[len(frames)-1]

	scanRow := func(launch int) rowBest {
		best := rowBest{loss: math.Inf(1)}
		for landing := launch + gap; landing <= last; landing++ {
			split := Split{Launch: launch, Landing: landing}
			total := 0.0
			fits := make([]Quadratic, 0, len(trajs))
			feasible := true
			for _, t := range trajs {
				fit := f.Model.loss(split, frames, times, t.Y)
				if !fit.Feasible() {
					feasible = false
					break
				}
				total += fit.Loss
				fits = append(fits, *fit.Quadratic)
			}
			if feasible && total < best.loss {
				best = rowBest{found: true, split: split, loss: total, fits: fits}
			}
		}
		return best
	}

	rows := make([]rowBest, last-first)
	if f.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.Workers)
		for r := range rows {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[r] = scanRow(first + r)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Interval{}, err
		}
	} else {
		for r := range rows {
			if err := ctx.Err(); err != nil {
				return Interval{}, err
			}
			rows[r] = scanRow(first + r)
		}
	}
	if err := ctx.Err(); err != nil {
		return Interval{}, err
	}

	best := rowBest{loss: math.Inf(1)}
	for _, row := range rows {
		if row.found && row.loss < best.loss {
			best = row
		}
	}
	if !best.found {
		return Interval{}, ErrNoFeasibleSplit
	}

	monitoring.Debugf("track %d: exhaustive best launch=%d landing=%d loss=%.4g over %d rows",
		trajs[0].TrackID, best.split.Launch, best.split.Landing, best.loss, len(rows))

	return Interval{
		Split:          best.split,
		Loss:           best.loss,
		Fits:           best.fits,
		NeedsScreening: true,
	}, nil
}
