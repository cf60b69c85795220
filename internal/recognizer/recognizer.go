// Package recognizer runs the detect, normalize and classify steps that turn
// an image into a gesture prediction.
package recognizer

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"gocv.io/x/gocv"
)

var (
	// ErrInvalidInput is returned for requests that carry no usable input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImage is returned when bytes cannot be decoded as an image.
	ErrInvalidImage = errors.New("could not decode image")

	// ErrNoHandDetected is returned when no complete hand is found.
	ErrNoHandDetected = errors.New("no hand detected")

	// ErrInference is returned when the detector or the model fails.
	ErrInference = errors.New("inference failed")
)

// Prediction is the classifier's verdict for one hand.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`

	// Probabilities holds the raw model output, one value per label.
	Probabilities []float32 `json:"-"`
}

// Observation is what one frame yielded. Hand is nil when nothing was
// detected; Classified is false when the hand was not classified.
type Observation struct {
	Hand       *detector.HandLandmarks
	Prediction Prediction
	Classified bool
}

// Recognizer combines a hand detector and a gesture classifier.
type Recognizer struct {
	detector   detector.Detector
	classifier classifier.Classifier
	labels     classifier.Labels
}

// New creates a Recognizer. The classifier's outputs are named by labels.
func New(det detector.Detector, cls classifier.Classifier, labels classifier.Labels) *Recognizer {
	return &Recognizer{
		detector:   det,
		classifier: cls,
		labels:     labels,
	}
}

// Labels returns the gesture classes the recognizer can report.
func (r *Recognizer) Labels() classifier.Labels {
	return r.labels
}

// Classify normalizes a complete hand and runs the model on it.
func (r *Recognizer) Classify(points []detector.Point) (Prediction, error) {
	if len(points) != detector.NumLandmarks {
		return Prediction{}, fmt.Errorf("%w: %d landmarks, want %d", ErrInvalidInput, len(points), detector.NumLandmarks)
	}

	probs, err := r.classifier.Predict(gesture.Float32(gesture.Normalize(points)))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrInference, err)
	}

	idx, conf := classifier.Argmax(probs)
	label := r.labels.Name(idx)
	if label == "" {
		return Prediction{}, fmt.Errorf("%w: class %d has no label", ErrInference, idx)
	}

	return Prediction{
		Label:         label,
		Confidence:    float64(conf),
		Probabilities: probs,
	}, nil
}

// Observe detects the first hand in frame and classifies it when it carries
// all landmarks. A frame without a hand is not an error.
func (r *Recognizer) Observe(frame *gocv.Mat) (Observation, error) {
	hands, err := r.detector.Detect(frame)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: detect: %w", ErrInference, err)
	}
	if len(hands) == 0 {
		return Observation{}, nil
	}

	obs := Observation{Hand: &hands[0]}
	if !obs.Hand.Complete() {
		return obs, nil
	}

	pred, err := r.Classify(obs.Hand.Points)
	if err != nil {
		return obs, err
	}
	obs.Prediction = pred
	obs.Classified = true
	return obs, nil
}

// DetectHand returns the first complete hand in frame.
func (r *Recognizer) DetectHand(frame *gocv.Mat) (*detector.HandLandmarks, error) {
	hands, err := r.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: detect: %w", ErrInference, err)
	}
	if len(hands) == 0 || !hands[0].Complete() {
		return nil, ErrNoHandDetected
	}
	return &hands[0], nil
}

// Recognize classifies the first hand in frame.
func (r *Recognizer) Recognize(frame *gocv.Mat) (Prediction, error) {
	hand, err := r.DetectHand(frame)
	if err != nil {
		return Prediction{}, err
	}
	return r.Classify(hand.Points)
}

// RecognizeImage decodes an encoded image and classifies the hand in it.
func (r *Recognizer) RecognizeImage(data []byte) (Prediction, error) {
	frame, err := DecodeImage(data)
	if err != nil {
		return Prediction{}, err
	}
	defer frame.Close()

	return r.Recognize(frame)
}

// Features decodes an encoded image and returns the normalized feature
// vector of the hand in it.
func (r *Recognizer) Features(data []byte) ([]float64, error) {
	frame, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	hand, err := r.DetectHand(frame)
	if err != nil {
		return nil, err
	}
	return gesture.Normalize(hand.Points), nil
}

// Close releases the detector and the classifier.
func (r *Recognizer) Close() error {
	return errors.Join(r.detector.Close(), r.classifier.Close())
}
