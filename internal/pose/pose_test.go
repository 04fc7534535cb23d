package pose

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "7": {
    "3": {"box": [10, 20, 110, 220], "keypoints": [[1, 2, 0.9], [3, 4]]},
    "1": {"box": [11, 21, 111, 221], "keypoints": [[5, 6, 0.8], [7]]}
  },
  "2": {
    "10": {"box": [0, 0, 1, 1], "keypoints": []}
  }
}`

func TestDecodeTracks(t *testing.T) {
	tracks, err := DecodeTracks(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, []int{2, 7}, tracks.IDs())

	tr := tracks[7]
	require.NotNil(t, tr)
	assert.Equal(t, 7, tr.ID)
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []int{1, 3}, tr.FrameIndices())

	obs := tr.Frames[3]
	assert.Equal(t, [4]float64{10, 20, 110, 220}, obs.Box)
	require.Len(t, obs.Keypoints, 2)
	assert.Equal(t, Landmark{X: 1, Y: 2, Confidence: 0.9}, obs.Keypoints[0])
	assert.Equal(t, Landmark{X: 3, Y: 4}, obs.Keypoints[1])

	short := tr.Frames[1].Keypoints[1]
	assert.True(t, math.IsNaN(short.X))
	assert.True(t, math.IsNaN(short.Y))
}

func TestDecodeTracksRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"track id", `{"abc": {}}`},
		{"frame index", `{"1": {"x": {"box": [], "keypoints": []}}}`},
		{"not json", `{"1":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTracks(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTracksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

	tracks, err := LoadTracksFile(path)
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	_, err = LoadTracksFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTrackAdd(t *testing.T) {
	var tr Track
	tr.Add(5, FrameObservation{})
	tr.Add(2, FrameObservation{})
	tr.Add(5, FrameObservation{Box: [4]float64{1, 1, 1, 1}})

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []int{2, 5}, tr.FrameIndices())
	assert.Equal(t, 1.0, tr.Frames[5].Box[0])
}
