package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func fixture(xy [NumLandmarks][2]float64) HandLandmarks {
	h := HandLandmarks{
		Points:     make([]Point, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	for i, p := range xy {
		h.Points[i] = Point{X: p[0], Y: p[1]}
	}
	return h
}

// ThumbsUpLandmarks returns a preset hand with the thumb extended upward
// and the other fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	return fixture([NumLandmarks][2]float64{
		{0.50, 0.80},
		// thumb
		{0.55, 0.75}, {0.58, 0.65}, {0.58, 0.50}, {0.58, 0.35},
		// index
		{0.55, 0.70}, {0.55, 0.68}, {0.52, 0.70}, {0.50, 0.72},
		// middle
		{0.50, 0.68}, {0.50, 0.66}, {0.47, 0.68}, {0.45, 0.70},
		// ring
		{0.45, 0.70}, {0.45, 0.68}, {0.42, 0.70}, {0.40, 0.72},
		// pinky
		{0.40, 0.72}, {0.40, 0.70}, {0.37, 0.72}, {0.35, 0.74},
	})
}

// OpenPalmLandmarks returns a preset hand with all fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return fixture([NumLandmarks][2]float64{
		{0.50, 0.80},
		{0.55, 0.75}, {0.62, 0.70}, {0.68, 0.65}, {0.73, 0.60},
		{0.55, 0.68}, {0.57, 0.55}, {0.58, 0.45}, {0.58, 0.35},
		{0.50, 0.66}, {0.50, 0.52}, {0.50, 0.40}, {0.50, 0.28},
		{0.45, 0.68}, {0.43, 0.55}, {0.42, 0.45}, {0.42, 0.35},
		{0.40, 0.70}, {0.37, 0.60}, {0.35, 0.50}, {0.34, 0.42},
	})
}
