package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back frames for testing. Each entry is either a frame or,
// when nil, a read failure.
type MockCamera struct {
	frames []*gocv.Mat
	index  int
	mu     sync.Mutex
	open   bool
	reads  int
}

// NewMockCamera returns a camera that yields frames in order and then
// ErrEndOfStream.
func NewMockCamera(frames ...*gocv.Mat) *MockCamera {
	return &MockCamera{frames: frames}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	c.reads++

	if c.index >= len(c.frames) {
		return nil, ErrEndOfStream
	}

	src := c.frames[c.index]
	c.index++
	if src == nil {
		return nil, ErrReadFailed
	}

	// Clone the frame so the original isn't modified
	frame := src.Clone()
	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Reads returns how many times ReadFrame was called while open.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
