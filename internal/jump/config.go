package jump

import (
	"github.com/banshee-data/jump.report/internal/config"
	"github.com/banshee-data/jump.report/internal/pose"
)

// Config holds the engine parameters. Build it with ConfigFromTuning or
// DefaultConfig rather than by hand so new fields pick up their defaults.
type Config struct {
	FPS       float64
	Strategy  string
	Landmarks []int

	Smoothing      bool
	SmoothingSigma float64

	MinTrackFrames int
	MinGapSingle   int
	MinGapPair     int
	OutlierSigma   float64

	MidpointTolerance float64
	Correction        FrameCorrection

	PeakWindow      int
	PeakThreshold   float64
	PeakProminence  float64
	PeakSeekMinimum bool

	SearchWorkers int
	TrackWorkers  int
}

// DefaultConfig returns production-default engine parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig())
}

// ConfigFromTuning derives engine config from a TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		FPS:               cfg.GetFPS(),
		Strategy:          cfg.GetStrategy(),
		Landmarks:         LandmarkIndices(cfg.GetLandmarks()),
		Smoothing:         cfg.GetSmoothing(),
		SmoothingSigma:    cfg.GetSmoothingSigma(),
		MinTrackFrames:    cfg.GetMinTrackFrames(),
		MinGapSingle:      cfg.GetMinGapSingle(),
		MinGapPair:        cfg.GetMinGapPair(),
		OutlierSigma:      cfg.GetOutlierSigma(),
		MidpointTolerance: cfg.GetMidpointTolerance(),
		Correction: FrameCorrection{
			Launch:  cfg.GetLaunchCorrection(),
			Landing: cfg.GetLandingCorrection(),
		},
		PeakWindow:      cfg.GetPeakWindow(),
		PeakThreshold:   cfg.GetPeakThreshold(),
		PeakProminence:  cfg.GetPeakProminence(),
		PeakSeekMinimum: cfg.GetPeakSeekMinimum(),
		SearchWorkers:   cfg.GetSearchWorkers(),
		TrackWorkers:    cfg.GetTrackWorkers(),
	}
}

// LandmarkIndices maps a landmark selection name to keypoint slots.
// Unknown names fall back to the hip pair.
func LandmarkIndices(selection string) []int {
	switch selection {
	case config.LandmarksLeftHip:
		return []int{pose.LeftHip}
	case config.LandmarksAnkles:
		return []int{pose.LeftAnkle, pose.RightAnkle}
	default:
		return []int{pose.LeftHip, pose.RightHip}
	}
}
