package jump

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAirTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		launch, landing int
		fps             float64
		want            float64
	}{
		{"twelve frames at 30fps", 10, 22, 30, 0.4},
		{"one frame at 60fps", 5, 6, 60, 1.0 / 60},
		{"inverted", 22, 10, 30, 0},
		{"empty", 10, 10, 30, 0},
		{"zero fps", 10, 22, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, AirTime(tc.launch, tc.landing, tc.fps), 1e-12)
		})
	}
}

func TestJumpHeightAndVelocity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 19.62, JumpHeightCM(0.4), 1e-9)
	assert.InDelta(t, 1.962, LaunchVelocityMPS(0.4), 1e-9)
	assert.Zero(t, JumpHeightCM(0))
	assert.Zero(t, JumpHeightCM(-1))
	assert.Zero(t, LaunchVelocityMPS(-0.2))
}

func TestPhysicsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, airTime := range []float64{0.1, 0.25, 0.4, 0.55, 0.9} {
		v := LaunchVelocityMPS(airTime)
		h := JumpHeightCM(airTime)
		assert.InDelta(t, v*v/(2*Gravity)*100, h, 1e-9, "air time %v", airTime)
		assert.InDelta(t, airTime, AirTimeForHeight(h), 1e-12)
	}
	assert.Zero(t, AirTimeForHeight(0))
}

func TestFrameCorrection(t *testing.T) {
	t.Parallel()

	c := DefaultFrameCorrection()
	assert.Equal(t, FrameCorrection{Launch: 3, Landing: 1}, c)
	assert.Equal(t, Split{Launch: 33, Landing: 46}, c.Apply(Split{Launch: 30, Landing: 45}))

	// Short intervals may invert; callers check.
	got := c.Apply(Split{Launch: 10, Landing: 11})
	assert.LessOrEqual(t, got.Landing, got.Launch)
}
