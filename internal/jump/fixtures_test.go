package jump

import (
	"github.com/banshee-data/jump.report/internal/pose"
)

const groundY = 500.0

// jumpY is a hip height trace in image coordinates: flat on the ground,
// with a parabolic arc between takeoff and touchdown that reaches apex
// pixels above the ground at the interval midpoint.
func jumpY(frame int, takeoff, touchdown, apex float64) float64 {
	t := float64(frame)
	if t <= takeoff || t >= touchdown {
		return groundY
	}
	half := (touchdown - takeoff) / 2
	k := apex / (half * half)
	return groundY + k*(t-takeoff)*(t-touchdown)
}

// observation builds a full COCO-17 observation with both hips at y and
// the ankles 120 px lower.
func observation(y float64) pose.FrameObservation {
	kps := make([]pose.Landmark, pose.NumKeypoints)
	for i := range kps {
		kps[i] = pose.Landmark{X: 320, Y: y - 150, Confidence: 0.9}
	}
	kps[pose.LeftHip] = pose.Landmark{X: 310, Y: y, Confidence: 0.95}
	kps[pose.RightHip] = pose.Landmark{X: 330, Y: y, Confidence: 0.95}
	kps[pose.LeftAnkle] = pose.Landmark{X: 305, Y: y + 120, Confidence: 0.9}
	kps[pose.RightAnkle] = pose.Landmark{X: 335, Y: y + 120, Confidence: 0.9}
	return pose.FrameObservation{
		Box:       [4]float64{280, y - 250, 360, y + 140},
		Keypoints: kps,
	}
}

// jumpTrack is frames first..last with an arc between takeoff and touchdown.
func jumpTrack(id, first, last int, takeoff, touchdown, apex float64) *pose.Track {
	tr := pose.NewTrack(id)
	for f := first; f <= last; f++ {
		tr.Add(f, observation(jumpY(f, takeoff, touchdown, apex)))
	}
	return tr
}

// rampTrack drifts steadily upward in the image with no flight phase.
func rampTrack(id, frames int) *pose.Track {
	tr := pose.NewTrack(id)
	for f := 1; f <= frames; f++ {
		tr.Add(f, observation(groundY-2*float64(f)))
	}
	return tr
}

// scenarioA is a 75-frame track airborne from frame 30 to frame 45.
func scenarioA(id int) *pose.Track {
	return jumpTrack(id, 1, 75, 30, 45, 90)
}

func trajectoryOf(y []float64, firstFrame int) Trajectory {
	frames := make([]int, len(y))
	for i := range frames {
		frames[i] = firstFrame + i
	}
	return Trajectory{TrackID: 1, Landmark: pose.LeftHip, Frames: frames, X: make([]float64, len(y)), Y: y}
}

func zeroCorrectionConfig() Config {
	cfg := DefaultConfig()
	cfg.Correction = FrameCorrection{}
	return cfg
}
