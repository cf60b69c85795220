package recognizer

import (
	"github.com/ayusman/mudra/internal/gesture"
	"gocv.io/x/gocv"
)

// FrameResult describes one processed frame of a stream.
type FrameResult struct {
	Observation

	// Accepted is true when the prediction was confident enough to be voted on.
	Accepted bool

	// Label is the smoothed label to display after this frame.
	Label string

	// Err is set when the frame failed; Label still holds the previous label.
	Err error
}

// Failed reports whether the frame could not be processed.
func (f FrameResult) Failed() bool {
	return f.Err != nil
}

// Stream recognizes consecutive frames and smooths the result over a window
// of recent predictions. A Stream is owned by a single goroutine.
type Stream struct {
	recognizer *Recognizer
	smoother   *gesture.Smoother
}

// NewStream starts a stream voting over the last window predictions.
func (r *Recognizer) NewStream(window int) *Stream {
	return &Stream{
		recognizer: r,
		smoother:   gesture.NewSmoother(window),
	}
}

// Process runs one frame through the recognizer and the smoother.
func (s *Stream) Process(frame *gocv.Mat) FrameResult {
	obs, err := s.recognizer.Observe(frame)
	if err != nil {
		return FrameResult{Observation: obs, Label: s.smoother.Label(), Err: err}
	}

	accepted := obs.Classified && s.smoother.Observe(obs.Prediction.Label, obs.Prediction.Confidence)
	return FrameResult{
		Observation: obs,
		Accepted:    accepted,
		Label:       s.smoother.Label(),
	}
}

// Fail records a frame that never reached the recognizer, such as a
// failed decode, without touching the window.
func (s *Stream) Fail(err error) FrameResult {
	return FrameResult{Label: s.smoother.Label(), Err: err}
}

// Skip records a frame that was deliberately not processed.
func (s *Stream) Skip() FrameResult {
	return FrameResult{Label: s.smoother.Label()}
}

// Label returns the current smoothed label.
func (s *Stream) Label() string {
	return s.smoother.Label()
}
