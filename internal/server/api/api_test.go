package api

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var testLabels = classifier.Labels{"fist", "palm", "thumbs_up", "peace", "ok"}

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range 16 {
		img.Set(i, i, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

type testEnv struct {
	det    *detector.MockDetector
	cls    *classifier.MockClassifier
	rec    *recognizer.Recognizer
	store  *store.Store
	router *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	det := detector.NewMockDetector()
	cls := classifier.NewMockClassifier(0.05, 0.05, 0.8, 0.05, 0.05)
	rec := recognizer.New(det, cls, testLabels)

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	validate := validator.New()
	log := logging.Discard()
	predict := NewPredictHandler(rec, validate, log)
	samples := NewSamplesHandler(s, rec, validate, log)

	r := mux.NewRouter()
	r.HandleFunc("/predict_image", predict.Predict).Methods(http.MethodPost)
	r.HandleFunc("/labels", predict.Labels).Methods(http.MethodGet)
	r.HandleFunc("/samples", samples.Create).Methods(http.MethodPost)
	r.HandleFunc("/samples", samples.List).Methods(http.MethodGet)
	r.HandleFunc("/samples/stats", samples.Stats).Methods(http.MethodGet)
	r.HandleFunc("/samples/export", samples.Export).Methods(http.MethodGet)
	r.HandleFunc("/samples/{id}", samples.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/gestures/{label}/samples", samples.DeleteByLabel).Methods(http.MethodDelete)

	return &testEnv{det: det, cls: cls, rec: rec, store: s, router: r}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func landmarksJSON(hand detector.HandLandmarks) string {
	pairs := make([][]float64, len(hand.Points))
	for i, p := range hand.Points {
		pairs[i] = []float64{p.X, p.Y}
	}
	data, _ := json.Marshal(pairs)
	return string(data)
}
