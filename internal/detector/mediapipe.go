package detector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gocv.io/x/gocv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IdleTimeout is how long the worker process may sit unused before it is stopped.
const IdleTimeout = 30 * time.Second

var (
	// ErrScriptNotFound is returned when mediapipe_service.py cannot be located.
	ErrScriptNotFound = errors.New("mediapipe_service.py not found")

	// ErrEmptyFrame is returned when Detect is called without image data.
	ErrEmptyFrame = errors.New("empty frame")
)

// MediaPipeDetector finds hands with MediaPipe running in a Python worker.
//
// Frames travel to the worker as a 4-byte big-endian length followed by a
// JPEG; each reply is one JSON line. The worker is started on first use and
// stopped after IdleTimeout without requests.
type MediaPipeDetector struct {
	config Config
	script string
	worker *worker
}

// NewMediaPipeDetector checks that the worker script exists. No process is
// started until the first Detect.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := config.Script
	if script == "" {
		script = findMediaPipeScript()
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("mediapipe script: %w", err)
	}
	if config.MaxHands <= 0 {
		config.MaxHands = 1
	}

	python := config.Python
	if python == "" {
		python = firstExisting(venvCandidates())
	}
	if python == "" {
		python = "python3"
	}

	d := &MediaPipeDetector{config: config, script: script}
	d.worker = newWorker(python, d.args(), IdleTimeout)
	return d, nil
}

// Detect encodes the frame as JPEG and returns the hands the worker found.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	line, err := d.worker.call(buf.GetBytes())
	if err != nil {
		return nil, err
	}
	return parseResponse(line)
}

// Close stops the worker process.
func (d *MediaPipeDetector) Close() error {
	return d.worker.close()
}

func (d *MediaPipeDetector) args() []string {
	args := []string{
		d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
	if d.config.StaticImageMode {
		args = append(args, "--static-image-mode")
	}
	return args
}

type reply struct {
	Hands []struct {
		Points     []Point `json:"points"`
		Handedness string  `json:"handedness"`
		Score      float64 `json:"score"`
	} `json:"hands"`
	Error string `json:"error"`
}

// parseResponse decodes one worker reply. The worker also sends z for each
// point; it is dropped.
func parseResponse(line []byte) ([]HandLandmarks, error) {
	var r reply
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if r.Error != "" {
		return nil, fmt.Errorf("mediapipe: %s", r.Error)
	}

	hands := make([]HandLandmarks, len(r.Hands))
	for i, h := range r.Hands {
		hands[i] = HandLandmarks{Points: h.Points, Handedness: h.Handedness, Score: h.Score}
	}
	return hands, nil
}

// searchDirs lists the working directory, its parent, the executable's
// directory and ~/.mudra, in that order.
func searchDirs() []string {
	dirs := []string{".", ".."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".mudra"))
	}
	return dirs
}

func findMediaPipeScript() string {
	var candidates []string
	for _, dir := range searchDirs() {
		candidates = append(candidates, filepath.Join(dir, "scripts", "mediapipe_service.py"))
	}
	return firstExisting(candidates)
}

func venvCandidates() []string {
	var candidates []string
	for _, dir := range searchDirs() {
		candidates = append(candidates, filepath.Join(dir, "venv", "bin", "python"))
	}
	return candidates
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}
