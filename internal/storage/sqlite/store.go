package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/jump.report/internal/jump"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the SQLite database at path, applies the
// connection pragmas and migrates the schema to the latest version.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// foreign_keys is per connection.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	if err := MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Run is one analyzer invocation over one keypoints document.
type Run struct {
	RunID      string          `json:"run_id"`
	SourcePath string          `json:"source_path"`
	Strategy   string          `json:"strategy"`
	FPS        float64         `json:"fps"`
	ParamsJSON json.RawMessage `json:"params_json,omitempty"`
	TrackCount int             `json:"track_count"`
	JumpCount  int             `json:"jump_count"`
	CreatedAt  int64           `json:"created_at"`
}

// RunStore provides persistence for analysis runs and their records.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a run together with its records in one transaction. If
// RunID is empty, a UUID is generated. TrackCount and JumpCount are derived
// from records.
func (s *RunStore) Insert(run *Run, records []jump.Record) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	run.TrackCount = len(records)
	run.JumpCount = 0
	for _, r := range records {
		if r.Jumping {
			run.JumpCount++
		}
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			INSERT INTO jump_runs (
				run_id, source_path, strategy, fps, params_json,
				track_count, jump_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.SourcePath, run.Strategy, run.FPS, paramsStr,
			run.TrackCount, run.JumpCount, run.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO jump_records (
				run_id, track_id, jumping, status, launch_frame, landing_frame,
				air_time_s, jump_height_cm, launch_velocity_mps, strategy, reason
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare record insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.Exec(
				run.RunID, r.TrackID, r.Jumping, string(r.Status),
				nullableInt(r.LaunchFrame), nullableInt(r.LandingFrame),
				r.AirTimeSeconds, r.JumpHeightCM, r.LaunchVelocityMPS,
				r.Strategy, r.Reason,
			); err != nil {
				return fmt.Errorf("insert record for track %d: %w", r.TrackID, err)
			}
		}
		return tx.Commit()
	})
}

// Get returns a single run by ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, source_path, strategy, fps, params_json,
		       track_count, jump_count, created_at
		FROM jump_runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// List returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT run_id, source_path, strategy, fps, params_json,
		       track_count, jump_count, created_at
		FROM jump_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records returns the records for a run ordered by track id.
func (s *RunStore) Records(runID string) ([]jump.Record, error) {
	rows, err := s.db.Query(`
		SELECT track_id, jumping, status, launch_frame, landing_frame,
		       air_time_s, jump_height_cm, launch_velocity_mps, strategy, reason
		FROM jump_records
		WHERE run_id = ?
		ORDER BY track_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []jump.Record
	for rows.Next() {
		var (
			r               jump.Record
			status          string
			launch, landing sql.NullInt64
			reason          sql.NullString
		)
		if err := rows.Scan(
			&r.TrackID, &r.Jumping, &status, &launch, &landing,
			&r.AirTimeSeconds, &r.JumpHeightCM, &r.LaunchVelocityMPS,
			&r.Strategy, &reason,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		r.Status = jump.Status(status)
		r.LaunchFrame = intPtr(launch)
		r.LandingFrame = intPtr(landing)
		r.Reason = reason.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a run and, by cascade, its records.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM jump_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var paramsStr sql.NullString
	err := row.Scan(
		&r.RunID, &r.SourcePath, &r.Strategy, &r.FPS, &paramsStr,
		&r.TrackCount, &r.JumpCount, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if paramsStr.Valid {
		r.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &r, nil
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
