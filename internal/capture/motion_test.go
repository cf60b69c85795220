package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionGate_Disabled(t *testing.T) {
	gate := NewMotionGate(0)
	defer gate.Close()

	if gate.Enabled() {
		t.Error("expected gate to be disabled")
	}
	if ok, _ := gate.Allow(nil); !ok {
		t.Error("disabled gate should allow every frame")
	}
}

func TestMotionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := func() gocv.Mat {
		return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	}

	t.Run("first frame is allowed", func(t *testing.T) {
		gate := NewMotionGate(1.0)
		defer gate.Close()

		frame := black()
		defer frame.Close()

		if ok, _ := gate.Allow(&frame); !ok {
			t.Error("expected first frame to be allowed")
		}
	})

	t.Run("identical frames are gated", func(t *testing.T) {
		gate := NewMotionGate(1.0)
		defer gate.Close()

		frame1 := black()
		defer frame1.Close()
		frame2 := black()
		defer frame2.Close()

		gate.Allow(&frame1)
		ok, changed := gate.Allow(&frame2)
		if ok {
			t.Errorf("expected no motion, got %.2f%% changed", changed)
		}
		if changed != 0 {
			t.Errorf("expected 0%% changed, got %.2f%%", changed)
		}
	})

	t.Run("large change opens the gate", func(t *testing.T) {
		gate := NewMotionGate(1.0)
		defer gate.Close()

		frame1 := black()
		defer frame1.Close()
		frame2 := black()
		defer frame2.Close()
		gocv.Rectangle(&frame2, image.Rect(100, 100, 400, 400), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

		gate.Allow(&frame1)
		ok, changed := gate.Allow(&frame2)
		if !ok {
			t.Errorf("expected motion, got %.2f%% changed", changed)
		}
	})

	t.Run("empty frame is rejected", func(t *testing.T) {
		gate := NewMotionGate(1.0)
		defer gate.Close()

		empty := gocv.NewMat()
		defer empty.Close()

		if ok, _ := gate.Allow(&empty); ok {
			t.Error("expected empty frame to be rejected")
		}
	})

	t.Run("reset forgets the baseline", func(t *testing.T) {
		gate := NewMotionGate(1.0)
		defer gate.Close()

		frame := black()
		defer frame.Close()

		gate.Allow(&frame)
		gate.Reset()
		if ok, _ := gate.Allow(&frame); !ok {
			t.Error("expected frame after reset to be allowed")
		}
	})
}
