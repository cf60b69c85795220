package gesture

const (
	// DefaultWindow is how many recent labels the smoother votes over.
	DefaultWindow = 10

	// MinConfidence is the confidence a prediction must exceed to be counted.
	MinConfidence = 0.1
)

// Smoother keeps the last few predicted labels and reports the most common
// one, so a single misclassified frame does not flip the displayed gesture.
//
// A Smoother is not safe for concurrent use; each stream owns its own.
type Smoother struct {
	window int
	labels []string
}

// NewSmoother returns a Smoother holding at most window labels.
// A window of zero or less uses DefaultWindow.
func NewSmoother(window int) *Smoother {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Smoother{
		window: window,
		labels: make([]string, 0, window),
	}
}

// Push appends a label, evicting the oldest one when the window is full.
func (s *Smoother) Push(label string) {
	if len(s.labels) == s.window {
		copy(s.labels, s.labels[1:])
		s.labels = s.labels[:len(s.labels)-1]
	}
	s.labels = append(s.labels, label)
}

// Observe pushes label if confidence is strictly above MinConfidence and
// reports whether it did.
func (s *Smoother) Observe(label string, confidence float64) bool {
	if confidence <= MinConfidence {
		return false
	}
	s.Push(label)
	return true
}

// Label returns the majority label, or "" while the window is empty.
// On a tie the label that first appears earliest in the window wins.
func (s *Smoother) Label() string {
	counts := make(map[string]int, len(s.labels))
	var order []string
	for _, l := range s.labels {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}

	best, bestCount := "", 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// Len returns how many labels are currently held.
func (s *Smoother) Len() int {
	return len(s.labels)
}

// Labels returns a copy of the window, oldest first.
func (s *Smoother) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Reset empties the window.
func (s *Smoother) Reset() {
	s.labels = s.labels[:0]
}
