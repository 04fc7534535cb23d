package jump

import (
	"context"
	"fmt"
	"math"

	"github.com/banshee-data/jump.report/internal/monitoring"
)

// PeakFinder is the single-pass alternative to ExhaustiveFinder. It picks
// the most prominent extremum of the first trajectory, fits one quadratic
// over a window around it, and bounds the interval where the fit deviates
// from the data. It skips plausibility screening.
type PeakFinder struct {
	// Window is the half-width in samples around the peak.
	Window int
	// Threshold is the absolute fit deviation marking the parabola's ends.
	Threshold float64
	// MinProminence filters out peaks shallower than this many pixels.
	MinProminence float64
	// SeekMinimum looks for a minimum instead of a maximum. In image
	// coordinates the apex of a jump is a minimum.
	SeekMinimum bool
}

// Name implements IntervalFinder.
func (p *PeakFinder) Name() string {
	return "peak"
}

// FindInterval implements IntervalFinder using trajs[0] only.
func (p *PeakFinder) FindInterval(ctx context.Context, trajs []Trajectory) (Interval, error) {
	if err := ctx.Err(); err != nil {
		return Interval{}, err
	}
	if err := checkTrajectories(trajs, 2); err != nil {
		return Interval{}, err
	}
	traj := trajs[0]

	start, end, fit, err := p.window(traj.Y, frameTimes(traj.Frames))
	if err != nil {
		return Interval{}, err
	}

	monitoring.Debugf("track %d: peak window samples [%d, %d]", traj.TrackID, start, end)

	return Interval{
		Split: Split{Launch: traj.Frames[start], Landing: traj.Frames[end]},
		Loss:  fit.sse,
		Fits:  []Quadratic{fit.quadratic()},
	}, nil
}

// FindWindow returns the sample offsets bounding the parabola around the
// most extreme prominent peak of y, with samples spaced one frame apart.
func (p *PeakFinder) FindWindow(y []float64) (start, end int, err error) {
	times := make([]float64, len(y))
	for i := range times {
		times[i] = float64(i)
	}
	start, end, _, err = p.window(y, times)
	return start, end, err
}

func (p *PeakFinder) window(y, times []float64) (start, end int, fit polyFit, err error) {
	processed := y
	if p.SeekMinimum {
		processed = make([]float64, len(y))
		for i, v := range y {
			processed[i] = -v
		}
	}

	peaks := findPeaks(processed, p.MinProminence)
	if len(peaks) == 0 {
		return 0, 0, polyFit{}, ErrNoPeak
	}

	best := peaks[0]
	for _, pk := range peaks[1:] {
		if processed[pk] > processed[best] {
			best = pk
		}
	}

	w := p.Window
	if w < 1 {
		w = 1
	}
	lo := max(0, best-w)
	hi := min(len(y)-1, best+w)

	fit, err = fitPolynomial(times[lo:hi+1], y[lo:hi+1], 2)
	if err != nil {
		return 0, 0, polyFit{}, fmt.Errorf("peak at sample %d: %w", best, err)
	}
	q := fit.quadratic()

	start, end = -1, -1
	for i := lo; i <= hi; i++ {
		if math.Abs(q.At(times[i])-y[i]) > p.Threshold {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 || end <= start {
		start, end = lo, hi
	}
	if end <= start {
		return 0, 0, polyFit{}, fmt.Errorf("%w: window [%d, %d] too narrow", ErrNoPeak, lo, hi)
	}
	return start, end, fit, nil
}

// findPeaks returns the indices of local maxima whose prominence is at
// least minProminence. A flat-topped peak is reported at the middle of its
// plateau. Endpoints are never peaks.
func findPeaks(x []float64, minProminence float64) []int {
	var peaks []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			j := i + 1
			for j < n && x[j] == x[i] {
				j++
			}
			if j < n && x[j] < x[i] {
				pk := (i + j - 1) / 2
				if prominence(x, pk) >= minProminence {
					peaks = append(peaks, pk)
				}
			}
			i = j
			continue
		}
		i++
	}
	return peaks
}

// prominence is the height of x[peak] above the higher of its two bases.
// Each base is the lowest point between the peak and the nearest strictly
// higher sample on that side, or the signal edge.
func prominence(x []float64, peak int) float64 {
	h := x[peak]

	leftMin := h
	for i := peak - 1; i >= 0 && x[i] <= h; i-- {
		leftMin = math.Min(leftMin, x[i])
	}
	rightMin := h
	for i := peak + 1; i < len(x) && x[i] <= h; i++ {
		rightMin = math.Min(rightMin, x[i])
	}
	return h - math.Max(leftMin, rightMin)
}
