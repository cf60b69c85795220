package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// MotionGate decides whether a frame differs enough from the previous one
// to be worth running hand detection on. It compares blurred grayscale
// frames and measures the percentage of pixels that changed.
//
// A MotionGate with a threshold of zero or less lets every frame through.
type MotionGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
}

// NewMotionGate creates a gate that opens when more than threshold percent
// of pixels change between frames.
func NewMotionGate(threshold float64) *MotionGate {
	return &MotionGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Enabled reports whether the gate filters frames at all.
func (m *MotionGate) Enabled() bool {
	return m.threshold > 0
}

// Allow reports whether frame should be processed and the percentage of
// pixels that changed. The first frame after a reset is always allowed.
func (m *MotionGate) Allow(frame *gocv.Mat) (bool, float64) {
	if !m.Enabled() {
		return true, 0
	}
	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || blurred.Rows() != m.prevGray.Rows() || blurred.Cols() != m.prevGray.Cols() {
		m.swap(blurred)
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0
	m.swap(blurred)

	return changed > m.threshold, changed
}

func (m *MotionGate) swap(next gocv.Mat) {
	m.prevGray.Close()
	m.prevGray = next
	m.initialized = true
}

// Reset forgets the previous frame.
func (m *MotionGate) Reset() {
	m.prevGray.Close()
	m.prevGray = gocv.NewMat()
	m.initialized = false
}

// Close releases resources used by the gate.
func (m *MotionGate) Close() {
	m.prevGray.Close()
	m.initialized = false
}
