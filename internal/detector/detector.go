package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a BGR frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// StaticImageMode treats every frame as an unrelated still image
	// instead of tracking the hand across frames.
	StaticImageMode bool

	// Python is the interpreter used to run the worker script. Empty means
	// a project virtualenv if one is found, python3 otherwise.
	Python string

	// Script is the path to mediapipe_service.py. Empty means search the
	// usual locations.
	Script string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// StaticConfig is used for one-off image requests: every image is processed
// independently and at most one hand is reported.
func StaticConfig() Config {
	cfg := DefaultConfig()
	cfg.StaticImageMode = true
	return cfg
}

// LiveConfig is used for the camera loop, which tracks a single hand and
// needs a stricter detection confidence to keep noise out of the buffer.
func LiveConfig() Config {
	cfg := DefaultConfig()
	cfg.MinConfidence = 0.7
	return cfg
}
