// Package app runs the live camera loop: read, mirror, recognize, smooth and
// draw the result.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/signs"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// DefaultMaxReadFailures is how many reads in a row may fail before the
// camera is considered gone.
const DefaultMaxReadFailures = 50

// QuitKey ends the loop.
const QuitKey = 'q'

// Config holds the collaborators of the live loop.
type Config struct {
	Camera     capture.Camera
	Recognizer *recognizer.Recognizer
	Display    Display
	Signs      signs.Set
	Logger     *logrus.Logger

	// Window is the smoothing window size. Zero uses the default.
	Window int

	// MotionThreshold skips detection on frames where at most this percent
	// of pixels changed. Zero disables the gate.
	MotionThreshold float64

	// MaxReadFailures ends the loop after this many consecutive failed
	// reads. Zero uses DefaultMaxReadFailures.
	MaxReadFailures int
}

// App is the live gesture view.
type App struct {
	config Config
	log    *logrus.Logger
	stream *recognizer.Stream
	frames int
}

// New creates an App.
func New(config Config) *App {
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if config.MaxReadFailures <= 0 {
		config.MaxReadFailures = DefaultMaxReadFailures
	}

	return &App{
		config: config,
		log:    config.Logger,
		stream: config.Recognizer.NewStream(config.Window),
	}
}

// Label returns the label currently displayed.
func (a *App) Label() string {
	return a.stream.Label()
}

// Frames returns how many frames were shown.
func (a *App) Frames() int {
	return a.frames
}

// Run opens the camera and processes frames until the quit key is pressed,
// the source ends or ctx is cancelled. Per-frame failures are logged and
// the loop carries on.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.config.Camera.Close()

	gate := capture.NewMotionGate(a.config.MotionThreshold)
	defer gate.Close()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := a.config.Camera.ReadFrame()
		if errors.Is(err, capture.ErrEndOfStream) {
			a.log.Info("[app.Run] camera stopped delivering frames")
			return nil
		}
		if err != nil {
			failures++
			a.log.WithFields(logrus.Fields{"error": err, "failures": failures}).Warn("[app.Run] failed to read frame")
			if failures >= a.config.MaxReadFailures {
				return fmt.Errorf("camera: %w", err)
			}
			continue
		}
		failures = 0

		if a.step(frame, gate) {
			return nil
		}
	}
}

// step processes and shows one frame. It reports whether the quit key was pressed.
func (a *App) step(frame *gocv.Mat, gate *capture.MotionGate) bool {
	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)
	frame.Close()

	var result recognizer.FrameResult
	if ok, _ := gate.Allow(&mirrored); ok {
		result = a.stream.Process(&mirrored)
	} else {
		result = a.stream.Skip()
	}
	a.report(result)

	drawHand(&mirrored, result.Hand)
	drawLabel(&mirrored, result.Label)
	drawSign(&mirrored, a.config.Signs, result.Label)

	a.config.Display.Show(&mirrored)
	a.frames++

	return a.config.Display.WaitKey(1)&0xFF == QuitKey
}

func (a *App) report(result recognizer.FrameResult) {
	if result.Failed() {
		a.log.WithField("error", result.Err).Warn("[app.Run] frame failed")
		return
	}
	if !result.Classified {
		return
	}
	a.log.WithFields(logrus.Fields{
		"label":         result.Prediction.Label,
		"confidence":    result.Prediction.Confidence,
		"probabilities": result.Prediction.Probabilities,
		"accepted":      result.Accepted,
		"displayed":     result.Label,
	}).Debug("[app.Run] prediction")
}
