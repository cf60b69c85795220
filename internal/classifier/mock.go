package classifier

import (
	"fmt"
	"sync"
)

// MockClassifier is a test implementation of Classifier that returns
// pre-configured probabilities.
type MockClassifier struct {
	mu     sync.Mutex
	probs  []float32
	err    error
	inputs [][]float32
	closed bool
}

// NewMockClassifier returns a mock that answers every call with probs.
func NewMockClassifier(probs ...float32) *MockClassifier {
	return &MockClassifier{probs: probs}
}

// SetProbabilities changes the probabilities returned by Predict.
func (m *MockClassifier) SetProbabilities(probs ...float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probs = probs
}

// SetError makes Predict fail with err.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Predict records the input and returns the configured result.
func (m *MockClassifier) Predict(features []float32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInputSize)
	}
	m.inputs = append(m.inputs, append([]float32(nil), features...))
	if m.err != nil {
		return nil, m.err
	}
	return append([]float32(nil), m.probs...), nil
}

// Inputs returns every feature vector passed to Predict.
func (m *MockClassifier) Inputs() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs
}

// Closed reports whether Close has been called.
func (m *MockClassifier) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close implements Classifier.
func (m *MockClassifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
