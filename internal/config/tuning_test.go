package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.FPS == nil || *cfg.FPS != 30 {
		t.Errorf("Expected FPS 30, got %v", cfg.FPS)
	}
	if cfg.Strategy == nil || *cfg.Strategy != StrategyExhaustive {
		t.Errorf("Expected Strategy %q, got %v", StrategyExhaustive, cfg.Strategy)
	}
	if cfg.LaunchCorrection == nil || *cfg.LaunchCorrection != 3 {
		t.Errorf("Expected LaunchCorrection 3, got %v", cfg.LaunchCorrection)
	}
	if cfg.LandingCorrection == nil || *cfg.LandingCorrection != 1 {
		t.Errorf("Expected LandingCorrection 1, got %v", cfg.LandingCorrection)
	}

	if cfg.GetMidpointTolerance() != 5 {
		t.Errorf("GetMidpointTolerance() = %f, want 5", cfg.GetMidpointTolerance())
	}
	if cfg.GetOutlierSigma() != 3 {
		t.Errorf("GetOutlierSigma() = %f, want 3", cfg.GetOutlierSigma())
	}
	if cfg.GetMinGapPair() != 10 {
		t.Errorf("GetMinGapPair() = %d, want 10", cfg.GetMinGapPair())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyTuningConfigGetters(t *testing.T) {
	cfg := EmptyTuningConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"fps", cfg.GetFPS(), 30.0},
		{"strategy", cfg.GetStrategy(), StrategyExhaustive},
		{"landmarks", cfg.GetLandmarks(), LandmarksHips},
		{"smoothing", cfg.GetSmoothing(), false},
		{"smoothing_sigma", cfg.GetSmoothingSigma(), 4.0},
		{"min_track_frames", cfg.GetMinTrackFrames(), 20},
		{"min_gap_single", cfg.GetMinGapSingle(), 1},
		{"min_gap_pair", cfg.GetMinGapPair(), 10},
		{"peak_window", cfg.GetPeakWindow(), 10},
		{"peak_threshold", cfg.GetPeakThreshold(), 0.5},
		{"peak_prominence", cfg.GetPeakProminence(), 30.0},
		{"peak_seek_minimum", cfg.GetPeakSeekMinimum(), true},
		{"search_workers", cfg.GetSearchWorkers(), 1},
		{"track_workers", cfg.GetTrackWorkers(), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "fps": 60,
  "strategy": "peak",
  "landmarks": "left_hip",
  "launch_correction": 0,
  "peak_window": 15
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetFPS() != 60 {
		t.Errorf("GetFPS() = %f, want 60", cfg.GetFPS())
	}
	if cfg.GetStrategy() != StrategyPeak {
		t.Errorf("GetStrategy() = %q, want %q", cfg.GetStrategy(), StrategyPeak)
	}
	if cfg.GetLandmarks() != LandmarksLeftHip {
		t.Errorf("GetLandmarks() = %q, want %q", cfg.GetLandmarks(), LandmarksLeftHip)
	}
	// explicit zero must not fall back to the default
	if cfg.GetLaunchCorrection() != 0 {
		t.Errorf("GetLaunchCorrection() = %d, want 0", cfg.GetLaunchCorrection())
	}
	if cfg.GetPeakWindow() != 15 {
		t.Errorf("GetPeakWindow() = %d, want 15", cfg.GetPeakWindow())
	}
	// omitted field keeps its default
	if cfg.GetLandingCorrection() != 1 {
		t.Errorf("GetLandingCorrection() = %d, want 1", cfg.GetLandingCorrection())
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigWrongExtension(t *testing.T) {
	_, err := LoadTuningConfig("config.yaml")
	if err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("Expected extension error, got %v", err)
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "fps": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadTuningConfigRepoDefaults(t *testing.T) {
	cfg, err := LoadTuningConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("Failed to load repository defaults: %v", err)
	}
	want := DefaultTuningConfig()
	if cfg.GetFPS() != want.GetFPS() || cfg.GetStrategy() != want.GetStrategy() ||
		cfg.GetMinGapPair() != want.GetMinGapPair() || cfg.GetPeakProminence() != want.GetPeakProminence() {
		t.Errorf("repository defaults drifted from DefaultTuningConfig")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{"empty", EmptyTuningConfig(), false},
		{"zero fps", &TuningConfig{FPS: ptrFloat64(0)}, true},
		{"bad strategy", &TuningConfig{Strategy: ptrString("genetic")}, true},
		{"bad landmarks", &TuningConfig{Landmarks: ptrString("knees")}, true},
		{"ankles", &TuningConfig{Landmarks: ptrString(LandmarksAnkles)}, false},
		{"negative sigma", &TuningConfig{SmoothingSigma: ptrFloat64(-1)}, true},
		{"zero gap", &TuningConfig{MinGapSingle: ptrInt(0)}, true},
		{"zero pair gap", &TuningConfig{MinGapPair: ptrInt(0)}, true},
		{"negative outlier sigma", &TuningConfig{OutlierSigma: ptrFloat64(-3)}, true},
		{"trim disabled", &TuningConfig{OutlierSigma: ptrFloat64(0)}, false},
		{"negative tolerance", &TuningConfig{MidpointTolerance: ptrFloat64(-1)}, true},
		{"zero window", &TuningConfig{PeakWindow: ptrInt(0)}, true},
		{"negative workers", &TuningConfig{TrackWorkers: ptrInt(-2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
