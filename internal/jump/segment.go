package jump

import (
	"math"
	"sort"
)

// Split is a candidate airborne interval: frames in (Launch, Landing] are
// airborne, frames ≤ Launch are grounded-before and frames > Landing are
// grounded-after.
type Split struct {
	Launch  int `json:"launch"`
	Landing int `json:"landing"`
}

// Midpoint returns the centre of the interval in frames.
func (s Split) Midpoint() float64 {
	return float64(s.Launch+s.Landing) / 2
}

// SegmentFit is the result of fitting the three-phase model to one split.
// An infeasible split has Loss = +Inf and a nil Quadratic.
type SegmentFit struct {
	Loss      float64
	Quadratic *Quadratic
	Pre       Linear
	Post      Linear
}

// Feasible reports whether the split produced a usable fit.
func (f SegmentFit) Feasible() bool {
	return f.Quadratic != nil && !math.IsInf(f.Loss, 1)
}

func infeasibleFit() SegmentFit {
	return SegmentFit{Loss: math.Inf(1)}
}

// SegmentModel fits linear / quadratic / linear pieces to a trajectory.
type SegmentModel struct {
	// OutlierSigma trims each phase's points beyond this many standard
	// deviations before fitting. Zero disables trimming.
	OutlierSigma float64
}

// Loss fits the three-phase model for one split. Infeasible splits and
// numerical failures come back as (+Inf, nil) rather than an error so the
// search treats them as non-competitive.
func (m SegmentModel) Loss(split Split, traj Trajectory) SegmentFit {
	return m.loss(split, traj.Frames, frameTimes(traj.Frames), traj.Y)
}

func (m SegmentModel) loss(split Split, frames []int, times, y []float64) SegmentFit {
	n := len(frames)
	if n < 2 || len(y) != n {
		return infeasibleFit()
	}

	s := clampSplit(split, frames[0], frames[n-1])
	i, j := partition(frames, s)
	if i == 0 || i == j || j == n {
		return infeasibleFit()
	}

	pre, err := m.fitPhase(times[:i], y[:i], 1)
	if err != nil {
		return infeasibleFit()
	}
	during, err := m.fitPhase(times[i:j], y[i:j], 2)
	if err != nil {
		return infeasibleFit()
	}
	post, err := m.fitPhase(times[j:], y[j:], 1)
	if err != nil {
		return infeasibleFit()
	}

	q := during.quadratic()
	return SegmentFit{
		Loss:      pre.sse + during.sse + post.sse,
		Quadratic: &q,
		Pre:       pre.linear(),
		Post:      post.linear(),
	}
}

func (m SegmentModel) fitPhase(t, y []float64, degree int) (polyFit, error) {
	t, y = trimOutliers(t, y, m.OutlierSigma, degree+1)
	return fitPolynomial(t, y, degree)
}

// clampSplit keeps all three phases inside [first, last]: launch into
// [first, last-1] and landing into [launch+1, last].
func clampSplit(s Split, first, last int) Split {
	s.Launch = clampInt(s.Launch, first, last-1)
	s.Landing = clampInt(s.Landing, s.Launch+1, last)
	return s
}

// partition returns the slice offsets dividing sorted frames into
// pre = frames[:i], during = frames[i:j] and post = frames[j:].
func partition(frames []int, s Split) (i, j int) {
	i = sort.SearchInts(frames, s.Launch+1)
	j = sort.SearchInts(frames, s.Landing+1)
	return i, j
}

func frameTimes(frames []int) []float64 {
	times := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = float64(f)
	}
	return times
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
