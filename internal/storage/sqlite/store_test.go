package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/jump.report/internal/jump"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jumps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func intp(v int) *int { return &v }

func sampleRecords() []jump.Record {
	return []jump.Record{
		{
			TrackID:           1,
			Jumping:           true,
			Status:            jump.StatusJumping,
			LaunchFrame:       intp(33),
			LandingFrame:      intp(46),
			AirTimeSeconds:    13.0 / 30,
			JumpHeightCM:      jump.JumpHeightCM(13.0 / 30),
			LaunchVelocityMPS: jump.LaunchVelocityMPS(13.0 / 30),
			Strategy:          "exhaustive",
		},
		{
			TrackID:  2,
			Status:   jump.StatusNotJumping,
			Strategy: "exhaustive",
			Reason:   "rejected: curve 0 opens downward",
		},
	}
}

func TestOpen_MigratesSchema(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := MigrateVersion(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, MigrateUp(db))

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrateDown(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, MigrateDown(db))
	version, _, err := MigrateVersion(db)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var n int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name = 'jump_runs'`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore(setupTestDB(t))

	run := &Run{
		SourcePath: "/data/keypoints.json",
		Strategy:   "exhaustive",
		FPS:        30,
		ParamsJSON: json.RawMessage(`{"fps":30}`),
	}
	require.NoError(t, store.Insert(run, sampleRecords()))
	assert.NotEmpty(t, run.RunID)
	assert.NotZero(t, run.CreatedAt)
	assert.Equal(t, 2, run.TrackCount)
	assert.Equal(t, 1, run.JumpCount)

	got, err := store.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.SourcePath, got.SourcePath)
	assert.Equal(t, 30.0, got.FPS)
	assert.Equal(t, 2, got.TrackCount)
	assert.Equal(t, 1, got.JumpCount)
	assert.JSONEq(t, `{"fps":30}`, string(got.ParamsJSON))

	records, err := store.Records(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), records)
}

func TestRunStore_GetMissing(t *testing.T) {
	store := NewRunStore(setupTestDB(t))

	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = store.Delete("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := NewRunStore(setupTestDB(t))

	for i, ts := range []int64{100, 300, 200} {
		run := &Run{SourcePath: "a.json", Strategy: "peak", FPS: 30, CreatedAt: ts}
		require.NoError(t, store.Insert(run, sampleRecords()[i%2:]), "run %d", i)
	}

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, int64(300), runs[0].CreatedAt)
	assert.Equal(t, int64(200), runs[1].CreatedAt)
	assert.Equal(t, int64(100), runs[2].CreatedAt)

	runs, err = store.List(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunStore_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db)

	run := &Run{SourcePath: "a.json", Strategy: "exhaustive", FPS: 30}
	require.NoError(t, store.Insert(run, sampleRecords()))
	require.NoError(t, store.Delete(run.RunID))

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM jump_records WHERE run_id = ?`, run.RunID).Scan(&n))
	assert.Zero(t, n)
}

func TestRunStore_DuplicateTrackRollsBack(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db)

	recs := append(sampleRecords(), sampleRecords()[0])
	run := &Run{SourcePath: "a.json", Strategy: "exhaustive", FPS: 30}
	require.Error(t, store.Insert(run, recs))

	_, err := store.Get(run.RunID)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRetryOnBusy(t *testing.T) {
	calls := 0
	err := retryOnBusy(func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("boom")
	err = retryOnBusy(func() error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}
