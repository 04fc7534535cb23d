package jump

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedObservation means a frame lacks a requested landmark.
	ErrMalformedObservation = errors.New("malformed observation")
	// ErrNoFeasibleSplit means every candidate split in the grid was infeasible.
	ErrNoFeasibleSplit = errors.New("no feasible split")
	// ErrDegenerateFit means a polynomial fit or vertex could not be computed.
	ErrDegenerateFit = errors.New("degenerate fit")
	// ErrNoPeak means the peak finder found no sufficiently prominent extremum.
	ErrNoPeak = errors.New("no prominent peak")
	// ErrTrackTooShort means the track has too few frames to segment.
	ErrTrackTooShort = errors.New("track too short")
)

// MalformedObservationError identifies the frame and landmark slot that
// could not be read.
type MalformedObservationError struct {
	TrackID  int
	Frame    int
	Landmark int
	Have     int // keypoints present in the frame
}

func (e *MalformedObservationError) Error() string {
	return fmt.Sprintf("track %d frame %d: landmark %d unavailable (%d keypoints)", e.TrackID, e.Frame, e.Landmark, e.Have)
}

// Unwrap lets errors.Is match ErrMalformedObservation.
func (e *MalformedObservationError) Unwrap() error {
	return ErrMalformedObservation
}
