package jump

import "fmt"

// Status summarises a track's outcome.
type Status string

const (
	// StatusJumping means an interval was found and accepted.
	StatusJumping Status = "jumping"
	// StatusNotJumping means no plausible interval exists.
	StatusNotJumping Status = "not_jumping"
	// StatusUndetermined means analysis was cancelled before a decision.
	StatusUndetermined Status = "undetermined"
)

// Record is the per-track output. It is built once and never modified.
// Frame fields are nil and physics fields zero unless Jumping.
type Record struct {
	TrackID           int     `json:"track_id"`
	Jumping           bool    `json:"jumping"`
	Status            Status  `json:"status"`
	LaunchFrame       *int    `json:"launch_frame"`
	LandingFrame      *int    `json:"landing_frame"`
	AirTimeSeconds    float64 `json:"air_time"`
	JumpHeightCM      float64 `json:"jump_height"`
	LaunchVelocityMPS float64 `json:"launch_velocity"`
	Strategy          string  `json:"strategy"`
	Reason            string  `json:"reason,omitempty"`
}

func notJumpingRecord(trackID int, strategy, reason string) Record {
	return Record{
		TrackID:  trackID,
		Status:   StatusNotJumping,
		Strategy: strategy,
		Reason:   reason,
	}
}

func undeterminedRecord(trackID int, strategy string, err error) Record {
	return Record{
		TrackID:  trackID,
		Status:   StatusUndetermined,
		Strategy: strategy,
		Reason:   err.Error(),
	}
}

func jumpingRecord(trackID int, strategy string, s Split, fps float64) Record {
	airTime := AirTime(s.Launch, s.Landing, fps)
	launch, landing := s.Launch, s.Landing
	return Record{
		TrackID:           trackID,
		Jumping:           true,
		Status:            StatusJumping,
		LaunchFrame:       &launch,
		LandingFrame:      &landing,
		AirTimeSeconds:    airTime,
		JumpHeightCM:      JumpHeightCM(airTime),
		LaunchVelocityMPS: LaunchVelocityMPS(airTime),
		Strategy:          strategy,
	}
}

// Airborne reports whether frame falls inside the jump, inclusive of both
// boundary frames. Renderers use it to decide per-frame overlays.
func (r Record) Airborne(frame int) bool {
	if !r.Jumping || r.LaunchFrame == nil || r.LandingFrame == nil {
		return false
	}
	return frame >= *r.LaunchFrame && frame <= *r.LandingFrame
}

// String renders the one-line outcome summary logged per track.
func (r Record) String() string {
	if r.Jumping {
		return fmt.Sprintf("track %d: launch frame %d, landing frame %d, jump height %.2f cm, launch velocity %.2f m/s",
			r.TrackID, *r.LaunchFrame, *r.LandingFrame, r.JumpHeightCM, r.LaunchVelocityMPS)
	}
	if r.Status == StatusUndetermined {
		return fmt.Sprintf("track %d: undetermined (%s)", r.TrackID, r.Reason)
	}
	return fmt.Sprintf("track %d: not jumping (%s)", r.TrackID, r.Reason)
}
