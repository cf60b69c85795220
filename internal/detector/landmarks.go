// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Connections lists the landmark pairs that make up the hand skeleton.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point is a landmark position relative to the image: X and Y are fractions
// of the image width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks is one detected hand.
type HandLandmarks struct {
	Points     []Point `json:"points"`
	Handedness string  `json:"handedness"` // "Left" or "Right"
	Score      float64 `json:"score"`
}

// Complete reports whether the hand carries exactly NumLandmarks points,
// the only shape the classifier accepts.
func (h *HandLandmarks) Complete() bool {
	return h != nil && len(h.Points) == NumLandmarks
}

// PointsFromPairs converts [x, y] pairs into points. Pairs shorter than two
// values are returned as an error.
func PointsFromPairs(pairs [][]float64) ([]Point, error) {
	points := make([]Point, len(pairs))
	for i, p := range pairs {
		if len(p) < 2 {
			return nil, &PairError{Index: i, Len: len(p)}
		}
		points[i] = Point{X: p[0], Y: p[1]}
	}
	return points, nil
}

// PairError reports a malformed [x, y] pair.
type PairError struct {
	Index int
	Len   int
}

func (e *PairError) Error() string {
	return fmt.Sprintf("landmark %d has %d coordinates, want 2", e.Index, e.Len)
}
