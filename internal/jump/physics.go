package jump

import "math"

// Gravity is standard gravitational acceleration in m/s².
const Gravity = 9.81

// FrameCorrection shifts fitted boundaries toward the true takeoff and
// touchdown instants. The fitted quadratic's ends lag both events; the
// defaults (+3 launch, +1 landing) are empirical and uncalibrated.
type FrameCorrection struct {
	Launch  int
	Landing int
}

// DefaultFrameCorrection returns the empirical +3/+1 frame correction.
func DefaultFrameCorrection() FrameCorrection {
	return FrameCorrection{Launch: 3, Landing: 1}
}

// Apply returns the corrected split. The result may be inverted for very
// short intervals; callers must check Landing > Launch.
func (c FrameCorrection) Apply(s Split) Split {
	return Split{Launch: s.Launch + c.Launch, Landing: s.Landing + c.Landing}
}

// AirTime converts a frame interval to seconds. Inverted intervals and
// non-positive frame rates yield zero.
func AirTime(launchFrame, landingFrame int, fps float64) float64 {
	if fps <= 0 || landingFrame <= launchFrame {
		return 0
	}
	return float64(landingFrame-launchFrame) / fps
}

// JumpHeightCM returns the apex height in centimetres for a symmetric
// flight of airTime seconds: h = ½·g·(t/2)².
func JumpHeightCM(airTime float64) float64 {
	if airTime <= 0 {
		return 0
	}
	return Gravity * airTime * airTime / 8 * 100
}

// LaunchVelocityMPS returns the vertical takeoff speed in m/s: v = g·t/2.
func LaunchVelocityMPS(airTime float64) float64 {
	if airTime <= 0 {
		return 0
	}
	return Gravity * airTime / 2
}

// AirTimeForHeight inverts JumpHeightCM.
func AirTimeForHeight(heightCM float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	return math.Sqrt(8 * heightCM / 100 / Gravity)
}
