package app

import (
	"image"
	"image/color"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/signs"
	"gocv.io/x/gocv"
)

var (
	labelColor      = color.RGBA{R: 255, A: 255}
	landmarkColor   = color.RGBA{R: 255, A: 255}
	connectionColor = color.RGBA{R: 224, G: 224, B: 224, A: 255}
)

// drawHand draws the hand skeleton. Points are relative to the frame size.
func drawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil || len(hand.Points) == 0 {
		return
	}

	w, h := float64(frame.Cols()), float64(frame.Rows())
	px := func(p detector.Point) image.Point {
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	for _, c := range detector.Connections {
		if c[0] < len(hand.Points) && c[1] < len(hand.Points) {
			gocv.Line(frame, px(hand.Points[c[0]]), px(hand.Points[c[1]]), connectionColor, 2)
		}
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, px(p), 2, landmarkColor, 2)
	}
}

// drawLabel writes the displayed label in the top-left corner.
func drawLabel(frame *gocv.Mat, label string) {
	if label == "" {
		return
	}
	gocv.PutTextWithParams(frame, label, image.Pt(10, 50), gocv.FontHersheySimplex, 1, labelColor, 2, gocv.LineAA, false)
}

// drawSign pastes the label's sign into the top-right corner.
func drawSign(frame *gocv.Mat, set signs.Set, label string) {
	sign, ok := set.Get(label)
	if !ok || frame.Cols() < signs.Size || frame.Rows() < signs.Size {
		return
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(sign, &resized, image.Pt(signs.Size, signs.Size), 0, 0, gocv.InterpolationLinear)
	if resized.Type() != frame.Type() {
		return
	}

	roi := frame.Region(image.Rect(frame.Cols()-signs.Size, 0, frame.Cols(), signs.Size))
	defer roi.Close()
	resized.CopyTo(&roi)
}
