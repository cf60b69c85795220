// Package gesture turns detected landmarks into classifier features and
// stabilizes per-frame predictions over time.
package gesture

import "github.com/ayusman/mudra/internal/detector"

// FeatureSize is the length of the feature vector for one complete hand.
const FeatureSize = 2 * detector.NumLandmarks

// Normalize maps the points into their own bounding box so that the result
// no longer depends on where the hand is in the frame or how large it is.
// Each point becomes ((x-minX)/width, (y-minY)/height), flattened in point
// order. A zero width or height is replaced by 1.
//
// The output always has 2*len(points) values; callers check the point count.
func Normalize(points []detector.Point) []float64 {
	out := make([]float64, 0, 2*len(points))
	if len(points) == 0 {
		return out
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	width := maxX - minX
	if width == 0 {
		width = 1
	}
	height := maxY - minY
	if height == 0 {
		height = 1
	}

	for _, p := range points {
		out = append(out, (p.X-minX)/width, (p.Y-minY)/height)
	}
	return out
}

// Float32 converts a feature vector to the model's input precision.
func Float32(features []float64) []float32 {
	out := make([]float32, len(features))
	for i, f := range features {
		out[i] = float32(f)
	}
	return out
}
