// Package classifier maps normalized hand features to gesture class
// probabilities.
package classifier

import "errors"

// ErrInputSize is returned when a feature vector does not match the model input.
var ErrInputSize = errors.New("feature vector has wrong length")

// Classifier runs the gesture model on one feature vector.
type Classifier interface {
	// Predict returns one probability per class, in label file order.
	Predict(features []float32) ([]float32, error)

	// Close releases the model.
	Close() error
}

// Argmax returns the index and value of the largest probability.
// The first index wins on ties. An empty slice yields -1.
func Argmax(probs []float32) (int, float32) {
	best := -1
	var bestVal float32
	for i, p := range probs {
		if best == -1 || p > bestVal {
			best, bestVal = i, p
		}
	}
	return best, bestVal
}
