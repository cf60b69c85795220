package e2e

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/signs"
	"github.com/ayusman/mudra/internal/store"
	jsoniter "github.com/json-iterator/go"
	"gocv.io/x/gocv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var labels = classifier.Labels{"fist", "palm", "thumbs_up", "peace", "ok"}

func jpegBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := range 32 {
		img.Set(x, 12, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return "data:image/jpeg;base64," + encode(buf.Bytes())
}

func TestE2E_ServerWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	det := detector.NewMockDetector()
	cls := classifier.NewMockClassifier(0.01, 0.02, 0.95, 0.01, 0.01)
	rec := recognizer.New(det, cls, labels)

	ts := httptest.NewServer(server.New(server.Config{Recognizer: rec, Store: s}))
	defer ts.Close()
	client := ts.Client()
	frame := jpegBase64(t)

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		defer resp.Body.Close()

		var health map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&health)
		if health["status"] != "ok" || health["model_loaded"] != true {
			t.Errorf("unexpected health: %v", health)
		}
	})

	t.Run("NoHand", func(t *testing.T) {
		det.SetHands()
		resp, err := client.Post(ts.URL+"/predict_image", "application/json", strings.NewReader(`{"image": "`+frame+`"}`))
		if err != nil {
			t.Fatalf("predict error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("Predict", func(t *testing.T) {
		det.SetHands(detector.ThumbsUpLandmarks())
		resp, err := client.Post(ts.URL+"/predict_image", "application/json", strings.NewReader(`{"image": "`+frame+`"}`))
		if err != nil {
			t.Fatalf("predict error = %v", err)
		}
		defer resp.Body.Close()

		var pred recognizer.Prediction
		json.NewDecoder(resp.Body).Decode(&pred)
		if pred.Label != "thumbs_up" || pred.Confidence < 0.9 {
			t.Errorf("unexpected prediction: %+v", pred)
		}

		inputs := cls.Inputs()
		if len(inputs) == 0 || len(inputs[len(inputs)-1]) != 42 {
			t.Errorf("classifier should receive 42 features, got %v", inputs)
		}
	})
}

func TestE2E_LiveLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dir := t.TempDir()
	if _, err := signs.Generate(dir, labels); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	set, err := signs.Load(dir, labels)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer set.Close()

	frames := make([]*gocv.Mat, 12)
	for i := range frames {
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &m
		defer m.Close()
	}

	det := detector.NewMockDetector()
	det.SetHands(detector.OpenPalmLandmarks())
	display := app.NewMockDisplay()
	defer display.Close()

	a := app.New(app.Config{
		Camera:     capture.NewMockCamera(frames...),
		Recognizer: recognizer.New(det, classifier.NewMockClassifier(0.1, 0.8, 0.04, 0.03, 0.03), labels),
		Display:    display,
		Signs:      set,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if a.Frames() != len(frames) || display.Shown() != len(frames) {
		t.Errorf("frames = %d shown = %d, want %d", a.Frames(), display.Shown(), len(frames))
	}
	if a.Label() != "palm" {
		t.Errorf("label = %q, want palm", a.Label())
	}
	if det.Calls() != len(frames) {
		t.Errorf("detector calls = %d, want %d", det.Calls(), len(frames))
	}
}

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
