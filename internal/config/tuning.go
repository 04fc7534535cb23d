package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Strategy names accepted by the strategy key.
const (
	StrategyExhaustive = "exhaustive"
	StrategyPeak       = "peak"
)

// Landmark selections accepted by the landmarks key.
const (
	LandmarksLeftHip = "left_hip"
	LandmarksHips    = "hips"
	LandmarksAnkles  = "ankles"
)

// TuningConfig represents the root configuration for jump analysis.
// Every field is optional; the Get* methods supply defaults for anything
// omitted, so partial files are safe.
type TuningConfig struct {
	// Input
	FPS       *float64 `json:"fps,omitempty"`
	Strategy  *string  `json:"strategy,omitempty"`
	Landmarks *string  `json:"landmarks,omitempty"`

	// Trajectory smoothing
	Smoothing      *bool    `json:"smoothing,omitempty"`
	SmoothingSigma *float64 `json:"smoothing_sigma,omitempty"`

	// Exhaustive search
	MinTrackFrames *int     `json:"min_track_frames,omitempty"`
	MinGapSingle   *int     `json:"min_gap_single,omitempty"`
	MinGapPair     *int     `json:"min_gap_pair,omitempty"`
	OutlierSigma   *float64 `json:"outlier_sigma,omitempty"`

	// Plausibility
	MidpointTolerance *float64 `json:"midpoint_tolerance,omitempty"`

	// Boundary correction, in frames. Empirical, see DESIGN.md.
	LaunchCorrection  *int `json:"launch_correction,omitempty"`
	LandingCorrection *int `json:"landing_correction,omitempty"`

	// Peak-based finder
	PeakWindow      *int     `json:"peak_window,omitempty"`
	PeakThreshold   *float64 `json:"peak_threshold,omitempty"`
	PeakProminence  *float64 `json:"peak_prominence,omitempty"`
	PeakSeekMinimum *bool    `json:"peak_seek_minimum,omitempty"`

	// Workers
	SearchWorkers *int `json:"search_workers,omitempty"`
	TrackWorkers  *int `json:"track_workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the Get* defaults. Useful for writing a starter file.
func DefaultTuningConfig() *TuningConfig {
	c := EmptyTuningConfig()
	return &TuningConfig{
		FPS:               ptrFloat64(c.GetFPS()),
		Strategy:          ptrString(c.GetStrategy()),
		Landmarks:         ptrString(c.GetLandmarks()),
		Smoothing:         ptrBool(c.GetSmoothing()),
		SmoothingSigma:    ptrFloat64(c.GetSmoothingSigma()),
		MinTrackFrames:    ptrInt(c.GetMinTrackFrames()),
		MinGapSingle:      ptrInt(c.GetMinGapSingle()),
		MinGapPair:        ptrInt(c.GetMinGapPair()),
		OutlierSigma:      ptrFloat64(c.GetOutlierSigma()),
		MidpointTolerance: ptrFloat64(c.GetMidpointTolerance()),
		LaunchCorrection:  ptrInt(c.GetLaunchCorrection()),
		LandingCorrection: ptrInt(c.GetLandingCorrection()),
		PeakWindow:        ptrInt(c.GetPeakWindow()),
		PeakThreshold:     ptrFloat64(c.GetPeakThreshold()),
		PeakProminence:    ptrFloat64(c.GetPeakProminence()),
		PeakSeekMinimum:   ptrBool(c.GetPeakSeekMinimum()),
		SearchWorkers:     ptrInt(c.GetSearchWorkers()),
		TrackWorkers:      ptrInt(c.GetTrackWorkers()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FPS != nil && *c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %f", *c.FPS)
	}

	if c.Strategy != nil {
		switch *c.Strategy {
		case StrategyExhaustive, StrategyPeak:
		default:
			return fmt.Errorf("unknown strategy %q (want %q or %q)", *c.Strategy, StrategyExhaustive, StrategyPeak)
		}
	}

	if c.Landmarks != nil {
		switch *c.Landmarks {
		case LandmarksLeftHip, LandmarksHips, LandmarksAnkles:
		default:
			return fmt.Errorf("unknown landmarks %q", *c.Landmarks)
		}
	}

	if c.SmoothingSigma != nil && *c.SmoothingSigma <= 0 {
		return fmt.Errorf("smoothing_sigma must be positive, got %f", *c.SmoothingSigma)
	}
	if c.MinTrackFrames != nil && *c.MinTrackFrames < 0 {
		return fmt.Errorf("min_track_frames must be non-negative, got %d", *c.MinTrackFrames)
	}
	if c.MinGapSingle != nil && *c.MinGapSingle < 1 {
		return fmt.Errorf("min_gap_single must be at least 1, got %d", *c.MinGapSingle)
	}
	if c.MinGapPair != nil && *c.MinGapPair < 1 {
		return fmt.Errorf("min_gap_pair must be at least 1, got %d", *c.MinGapPair)
	}
	if c.OutlierSigma != nil && *c.OutlierSigma < 0 {
		return fmt.Errorf("outlier_sigma must be non-negative, got %f", *c.OutlierSigma)
	}
	if c.MidpointTolerance != nil && *c.MidpointTolerance < 0 {
		return fmt.Errorf("midpoint_tolerance must be non-negative, got %f", *c.MidpointTolerance)
	}
	if c.PeakWindow != nil && *c.PeakWindow < 1 {
		return fmt.Errorf("peak_window must be at least 1, got %d", *c.PeakWindow)
	}
	if c.PeakThreshold != nil && *c.PeakThreshold < 0 {
		return fmt.Errorf("peak_threshold must be non-negative, got %f", *c.PeakThreshold)
	}
	if c.PeakProminence != nil && *c.PeakProminence < 0 {
		return fmt.Errorf("peak_prominence must be non-negative, got %f", *c.PeakProminence)
	}
	if c.SearchWorkers != nil && *c.SearchWorkers < 0 {
		return fmt.Errorf("search_workers must be non-negative, got %d", *c.SearchWorkers)
	}
	if c.TrackWorkers != nil && *c.TrackWorkers < 0 {
		return fmt.Errorf("track_workers must be non-negative, got %d", *c.TrackWorkers)
	}

	return nil
}

// GetFPS returns the video frame rate or the default.
func (c *TuningConfig) GetFPS() float64 {
	if c.FPS == nil {
		return 30
	}
	return *c.FPS
}

// GetStrategy returns the interval finder strategy or the default.
func (c *TuningConfig) GetStrategy() string {
	if c.Strategy == nil || *c.Strategy == "" {
		return StrategyExhaustive
	}
	return *c.Strategy
}

// GetLandmarks returns the landmark selection or the default.
func (c *TuningConfig) GetLandmarks() string {
	if c.Landmarks == nil || *c.Landmarks == "" {
		return LandmarksHips
	}
	return *c.Landmarks
}

// GetSmoothing returns the smoothing value or the default.
func (c *TuningConfig) GetSmoothing() bool {
	if c.Smoothing == nil {
		return false
	}
	return *c.Smoothing
}

// GetSmoothingSigma returns the Gaussian kernel spread in samples.
func (c *TuningConfig) GetSmoothingSigma() float64 {
	if c.SmoothingSigma == nil {
		return 4.0
	}
	return *c.SmoothingSigma
}

// GetMinTrackFrames returns the minimum number of observed frames a track
// needs before a split is attempted.
func (c *TuningConfig) GetMinTrackFrames() int {
	if c.MinTrackFrames == nil {
		return 20
	}
	return *c.MinTrackFrames
}

// GetMinGapSingle returns the minimum launch/landing gap for one landmark.
func (c *TuningConfig) GetMinGapSingle() int {
	if c.MinGapSingle == nil {
		return 1
	}
	return *c.MinGapSingle
}

// GetMinGapPair returns the minimum launch/landing gap when two landmarks
// are combined.
func (c *TuningConfig) GetMinGapPair() int {
	if c.MinGapPair == nil {
		return 10
	}
	return *c.MinGapPair
}

// GetOutlierSigma returns the per-segment trim threshold in standard
// deviations. Zero disables trimming.
func (c *TuningConfig) GetOutlierSigma() float64 {
	if c.OutlierSigma == nil {
		return 3.0
	}
	return *c.OutlierSigma
}

// GetMidpointTolerance returns the allowed vertex/midpoint disagreement in frames.
func (c *TuningConfig) GetMidpointTolerance() float64 {
	if c.MidpointTolerance == nil {
		return 5.0
	}
	return *c.MidpointTolerance
}

// GetLaunchCorrection returns the frames added to the fitted launch frame.
func (c *TuningConfig) GetLaunchCorrection() int {
	if c.LaunchCorrection == nil {
		return 3
	}
	return *c.LaunchCorrection
}

// GetLandingCorrection returns the frames added to the fitted landing frame.
func (c *TuningConfig) GetLandingCorrection() int {
	if c.LandingCorrection == nil {
		return 1
	}
	return *c.LandingCorrection
}

// GetPeakWindow returns the peak finder window half-width in samples.
func (c *TuningConfig) GetPeakWindow() int {
	if c.PeakWindow == nil {
		return 10
	}
	return *c.PeakWindow
}

// GetPeakThreshold returns the fit deviation threshold of the peak finder.
func (c *TuningConfig) GetPeakThreshold() float64 {
	if c.PeakThreshold == nil {
		return 0.5
	}
	return *c.PeakThreshold
}

// GetPeakProminence returns the minimum peak prominence in pixels.
func (c *TuningConfig) GetPeakProminence() float64 {
	if c.PeakProminence == nil {
		return 30.0
	}
	return *c.PeakProminence
}

// GetPeakSeekMinimum returns whether the peak finder looks for a minimum.
// Image y grows downward so the apex of a jump is a minimum.
func (c *TuningConfig) GetPeakSeekMinimum() bool {
	if c.PeakSeekMinimum == nil {
		return true
	}
	return *c.PeakSeekMinimum
}

// GetSearchWorkers returns the number of goroutines scanning launch rows
// of the exhaustive grid. 0 and 1 both mean sequential.
func (c *TuningConfig) GetSearchWorkers() int {
	if c.SearchWorkers == nil {
		return 1
	}
	return *c.SearchWorkers
}

// GetTrackWorkers returns the number of tracks analysed concurrently.
// 0 means one per CPU.
func (c *TuningConfig) GetTrackWorkers() int {
	if c.TrackWorkers == nil {
		return 0
	}
	return *c.TrackWorkers
}
