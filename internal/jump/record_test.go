package jump

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAirborne(t *testing.T) {
	t.Parallel()

	rec := jumpingRecord(1, "exhaustive", Split{Launch: 33, Landing: 46}, 30)
	assert.False(t, rec.Airborne(32))
	assert.True(t, rec.Airborne(33))
	assert.True(t, rec.Airborne(40))
	assert.True(t, rec.Airborne(46))
	assert.False(t, rec.Airborne(47))

	none := notJumpingRecord(2, "exhaustive", "rejected")
	assert.False(t, none.Airborne(40))
}

func TestRecordJSON(t *testing.T) {
	t.Parallel()

	rec := jumpingRecord(1, "exhaustive", Split{Launch: 10, Landing: 22}, 30)
	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, true, m["jumping"])
	assert.Equal(t, 10.0, m["launch_frame"])
	assert.Equal(t, 22.0, m["landing_frame"])
	assert.InDelta(t, 19.62, m["jump_height"], 1e-9)
	assert.InDelta(t, 1.962, m["launch_velocity"], 1e-9)
	assert.NotContains(t, m, "reason")

	b, err = json.Marshal(notJumpingRecord(2, "peak", "no prominent peak"))
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Nil(t, m["launch_frame"])
	assert.Contains(t, m, "launch_frame")
	assert.Equal(t, "not_jumping", m["status"])
	assert.Equal(t, 0.0, m["jump_height"])
}

func TestRecordString(t *testing.T) {
	t.Parallel()

	rec := jumpingRecord(4, "exhaustive", Split{Launch: 10, Landing: 22}, 30)
	assert.Equal(t, "track 4: launch frame 10, landing frame 22, jump height 19.62 cm, launch velocity 1.96 m/s", rec.String())
	assert.Equal(t, "track 5: not jumping (x)", notJumpingRecord(5, "peak", "x").String())
}
