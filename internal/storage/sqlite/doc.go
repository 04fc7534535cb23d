// Package sqlite persists jump analysis runs and their per-track records.
//
// A run is one invocation of the analyzer over one keypoints document. Its
// records are written in the same transaction so a run is never visible
// without its results. The schema is owned by the embedded migrations and
// applied on Open.
package sqlite
