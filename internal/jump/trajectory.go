package jump

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/jump.report/internal/pose"
)

// Trajectory is one landmark's position over time for one track.
// Frames, X and Y are parallel and sorted by frame ascending.
// Treat it as immutable: Smooth returns a copy.
type Trajectory struct {
	TrackID  int
	Landmark int
	Frames   []int
	X        []float64
	Y        []float64
	Smoothed bool
}

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t.Frames)
}

// FirstFrame returns the earliest frame index, or 0 for an empty trajectory.
func (t Trajectory) FirstFrame() int {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[0]
}

// LastFrame returns the latest frame index, or 0 for an empty trajectory.
func (t Trajectory) LastFrame() int {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[len(t.Frames)-1]
}

// ExtractTrajectory reads one landmark slot from every frame of a track.
func ExtractTrajectory(track *pose.Track, landmark int) (Trajectory, error) {
	trajs, err := ExtractTrajectories(track, landmark)
	if err != nil {
		return Trajectory{}, err
	}
	return trajs[0], nil
}

// ExtractTrajectories reads several landmark slots in a single pass. All
// returned trajectories share the same Frames slice. The first frame that
// lacks any requested slot fails the whole track with a
// *MalformedObservationError.
func ExtractTrajectories(track *pose.Track, landmarks ...int) ([]Trajectory, error) {
	frames := track.FrameIndices()

	trajs := make([]Trajectory, len(landmarks))
	for i, lm := range landmarks {
		trajs[i] = Trajectory{
			TrackID:  track.ID,
			Landmark: lm,
			Frames:   frames,
			X:        make([]float64, len(frames)),
			Y:        make([]float64, len(frames)),
		}
	}

	for fi, frame := range frames {
		kps := track.Frames[frame].Keypoints
		for i, lm := range landmarks {
			if lm < 0 || lm >= len(kps) || math.IsNaN(kps[lm].X) || math.IsNaN(kps[lm].Y) {
				return nil, &MalformedObservationError{
					TrackID:  track.ID,
					Frame:    frame,
					Landmark: lm,
					Have:     len(kps),
				}
			}
			trajs[i].X[fi] = kps[lm].X
			trajs[i].Y[fi] = kps[lm].Y
		}
	}
	return trajs, nil
}

// Smooth returns a copy with Y blurred by a Gaussian kernel of the given
// spread in samples. Length and frame alignment are preserved; X is left
// untouched. A non-positive sigma returns t unchanged.
func (t Trajectory) Smooth(sigma float64) Trajectory {
	if sigma <= 0 || len(t.Y) == 0 {
		return t
	}
	out := t
	out.Y = gaussianSmooth(t.Y, sigma)
	out.Smoothed = true
	return out
}

// gaussianSmooth convolves values with a normalised Gaussian truncated at
// four sigma, reflecting the signal at both ends.
func gaussianSmooth(values []float64, sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		r := float64(k) / sigma
		kernel[k+radius] = math.Exp(-0.5 * r * r)
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	n := len(values)
	out := make([]float64, n)
	for i := range values {
		var acc float64
		for k := -radius; k <= radius; k++ {
			acc += kernel[k+radius] * values[reflectIndex(i+k, n)]
		}
		out[i] = acc
	}
	return out
}

// reflectIndex folds an out-of-range index back into [0, n) using
// half-sample symmetric reflection (d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i - 1
	}
	return i
}
