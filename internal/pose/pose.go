// Package pose holds the per-frame body keypoint data produced by the
// upstream pose detector and tracker.
//
// The detector itself lives outside this repository. This package only
// models its output (track id -> frame index -> box + keypoints) and decodes
// the JSON document it writes. Keypoints follow the COCO-17 layout.
package pose

import "sort"

// COCO-17 keypoint indices.
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	NumKeypoints  = 17
)

// Landmark is one keypoint in pixel coordinates. X and Y are NaN when the
// detector emitted fewer than two values for the slot.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// FrameObservation is everything the detector reported for one track in one frame.
type FrameObservation struct {
	Box       [4]float64 // xyxy pixels
	Keypoints []Landmark
}

// Track is one tracked identity and its observations keyed by frame index.
// Frame indices are positive and strictly increasing once sorted, but need
// not be contiguous.
type Track struct {
	ID     int
	Frames map[int]FrameObservation
}

// Tracks maps track id to track.
type Tracks map[int]*Track

// NewTrack returns an empty track with the given id.
func NewTrack(id int) *Track {
	return &Track{ID: id, Frames: make(map[int]FrameObservation)}
}

// Add records an observation for a frame, replacing any existing one.
func (t *Track) Add(frame int, obs FrameObservation) {
	if t.Frames == nil {
		t.Frames = make(map[int]FrameObservation)
	}
	t.Frames[frame] = obs
}

// Len returns the number of observed frames.
func (t *Track) Len() int {
	return len(t.Frames)
}

// FrameIndices returns the observed frame indices in ascending order.
func (t *Track) FrameIndices() []int {
	frames := make([]int, 0, len(t.Frames))
	for f := range t.Frames {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// IDs returns the track ids in ascending order.
func (ts Tracks) IDs() []int {
	ids := make([]int, 0, len(ts))
	for id := range ts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
