package pose

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// maxDocumentSize bounds keypoint files read from disk.
const maxDocumentSize = 512 * 1024 * 1024

type rawObservation struct {
	Box       []float64   `json:"box"`
	Keypoints [][]float64 `json:"keypoints"`
}

// DecodeTracks reads the detector's JSON document:
//
//	{"<track id>": {"<frame index>": {"box": [x1,y1,x2,y2], "keypoints": [[x,y,conf], ...]}}}
//
// Keys are stringified integers. A key that does not parse as an integer
// fails the whole document since there is no track to attribute it to.
// Short keypoint entries decode to NaN coordinates and are left for the
// extractor to reject per track.
func DecodeTracks(r io.Reader) (Tracks, error) {
	var raw map[string]map[string]rawObservation
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode keypoints: %w", err)
	}

	tracks := make(Tracks, len(raw))
	for idKey, frames := range raw {
		id, err := strconv.Atoi(idKey)
		if err != nil {
			return nil, fmt.Errorf("track id %q is not an integer: %w", idKey, err)
		}
		track := NewTrack(id)
		for frameKey, ro := range frames {
			frame, err := strconv.Atoi(frameKey)
			if err != nil {
				return nil, fmt.Errorf("track %d: frame index %q is not an integer: %w", id, frameKey, err)
			}
			track.Add(frame, ro.observation())
		}
		tracks[id] = track
	}
	return tracks, nil
}

// LoadTracksFile decodes a keypoint document from disk.
func LoadTracksFile(path string) (Tracks, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat keypoints file: %w", err)
	}
	if info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("keypoints file too large: %d bytes (max %d)", info.Size(), maxDocumentSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keypoints file: %w", err)
	}
	defer f.Close()

	return DecodeTracks(f)
}

func (ro rawObservation) observation() FrameObservation {
	var obs FrameObservation
	copy(obs.Box[:], ro.Box)

	obs.Keypoints = make([]Landmark, len(ro.Keypoints))
	for i, kp := range ro.Keypoints {
		lm := Landmark{X: math.NaN(), Y: math.NaN()}
		if len(kp) >= 2 {
			lm.X, lm.Y = kp[0], kp[1]
		}
		if len(kp) >= 3 {
			lm.Confidence = kp[2]
		}
		obs.Keypoints[i] = lm
	}
	return obs
}
