package classifier

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrNoLabels is returned when a label file contains no labels.
var ErrNoLabels = errors.New("label file is empty")

// Labels is the ordered list of gesture classes. Index i names model output i.
type Labels []string

// LoadLabels reads a newline-delimited label file.
func LoadLabels(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	labels, err := ParseLabels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

// ParseLabels reads one label per line. Surrounding whitespace is trimmed
// and blank lines are skipped.
func ParseLabels(r io.Reader) (Labels, error) {
	var labels Labels
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	return labels, nil
}

// Name returns the label for class index i, or "" if i is out of range.
func (l Labels) Name(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// Contains reports whether label is one of the classes.
func (l Labels) Contains(label string) bool {
	return slices.Contains(l, label)
}
