package app

import (
	"sync"

	"gocv.io/x/gocv"
)

// WindowTitle is the title of the live view window.
const WindowTitle = "Hand Gesture Recognition"

// Display shows annotated frames and reports key presses.
type Display interface {
	Show(frame *gocv.Mat)

	// WaitKey waits up to delay milliseconds for a key and returns its code,
	// or -1 when no key was pressed.
	WaitKey(delay int) int
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(frame *gocv.Mat) {
	w.window.IMShow(*frame)
}

func (w *Window) WaitKey(delay int) int {
	return w.window.WaitKey(delay)
}

func (w *Window) Close() error {
	return w.window.Close()
}

// MockDisplay records shown frames and replays scripted key presses.
type MockDisplay struct {
	mu     sync.Mutex
	keys   []int
	shown  int
	last   gocv.Mat
	closed bool
}

// NewMockDisplay returns a display that answers WaitKey with keys in order,
// then -1.
func NewMockDisplay(keys ...int) *MockDisplay {
	return &MockDisplay{keys: keys, last: gocv.NewMat()}
}

func (d *MockDisplay) Show(frame *gocv.Mat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown++
	frame.CopyTo(&d.last)
}

func (d *MockDisplay) WaitKey(delay int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.keys) == 0 {
		return -1
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *MockDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.last.Close()
	return nil
}

// Shown returns how many frames were shown.
func (d *MockDisplay) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// Last returns a copy of the most recently shown frame. The caller closes it.
func (d *MockDisplay) Last() gocv.Mat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last.Clone()
}
