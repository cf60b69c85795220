// Package capture reads frames from a camera device or a video file using
// GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrEndOfStream is returned once a source has no more frames.
	ErrEndOfStream = errors.New("end of stream")

	// ErrReadFailed is returned when a device fails to deliver a frame.
	ErrReadFailed = errors.New("failed to read frame")
)

// Camera is a source of BGR frames.
type Camera interface {
	Open() error
	Close() error

	// ReadFrame returns the next frame. The caller closes it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// Source names what to capture from: a device index or a video file path.
type Source struct {
	Device int
	File   string
}

// ParseSource reads "0", "1", ... as a device index and anything else as a
// file path.
func ParseSource(s string) Source {
	if id, err := strconv.Atoi(s); err == nil {
		return Source{Device: id}
	}
	return Source{File: s}
}

func (s Source) String() string {
	if s.File != "" {
		return s.File
	}
	return "device " + strconv.Itoa(s.Device)
}

// videoCamera reads from a gocv.VideoCapture.
type videoCamera struct {
	source  Source
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// NewCamera creates a Camera for the given source. Nothing is opened until Open.
func NewCamera(source Source) Camera {
	return &videoCamera{source: source}
}

// Open opens the source. Devices are asked for 640x480.
func (c *videoCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	if c.source.File != "" {
		capture, err = gocv.OpenVideoCapture(c.source.File)
	} else {
		capture, err = gocv.OpenVideoCapture(c.source.Device)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", c.source, err)
	}

	if c.source.File == "" {
		capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
		capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	}

	c.capture = capture
	return nil
}

// Close closes the source and releases resources.
func (c *videoCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	return err
}

// ReadFrame reads a single frame. A file that has run out of frames reports
// ErrEndOfStream; a device that fails to deliver reports ErrReadFailed.
func (c *videoCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		if c.source.File != "" {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("%s: %w", c.source, ErrReadFailed)
	}

	return &mat, nil
}

// IsOpen returns true if the source is currently open.
func (c *videoCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.capture != nil
}
