package api

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SamplesHandler handles HTTP requests for training sample resources.
type SamplesHandler struct {
	store      *store.Store
	recognizer *recognizer.Recognizer
	validate   *validator.Validate
	log        *logrus.Logger
}

// NewSamplesHandler creates a new SamplesHandler.
func NewSamplesHandler(s *store.Store, rec *recognizer.Recognizer, validate *validator.Validate, log *logrus.Logger) *SamplesHandler {
	return &SamplesHandler{store: s, recognizer: rec, validate: validate, log: log}
}

// createSampleRequest carries either an image or 21 [x, y] landmarks.
type createSampleRequest struct {
	Label     string      `json:"label" validate:"required"`
	Image     string      `json:"image" validate:"required_without=Landmarks"`
	Landmarks [][]float64 `json:"landmarks" validate:"omitempty,len=21,dive,len=2"`
}

type listSamplesResponse struct {
	Samples []store.Sample `json:"samples"`
}

type statsResponse struct {
	Counts map[string]int `json:"counts"`
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// validationMessage turns a validation failure into a client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidJSON
	}

	fe := verrs[0]
	switch {
	case fe.StructField() == "Label":
		return "No label provided"
	case fe.Tag() == "required_without":
		return "No image or landmarks provided"
	case strings.HasPrefix(fe.StructField(), "Landmarks["):
		return "Each landmark must be an [x, y] pair"
	case fe.StructField() == "Landmarks":
		return "Expected " + strconv.Itoa(detector.NumLandmarks) + " landmarks"
	default:
		return MsgInvalidJSON
	}
}

// Create handles POST /samples.
func (h *SamplesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSampleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if !h.recognizer.Labels().Contains(req.Label) {
		writeError(w, http.StatusBadRequest, "Unknown label")
		return
	}

	sample := &store.Sample{Label: req.Label}

	if req.Landmarks != nil {
		points, err := detector.PointsFromPairs(req.Landmarks)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Each landmark must be an [x, y] pair")
			return
		}
		sample.Features = gesture.Normalize(points)
		sample.Source = store.SourceLandmarks
	} else {
		data, err := recognizer.DecodePayload(req.Image)
		if err != nil {
			writeRecognizerError(w, r, h.log, "[api.CreateSample]", err)
			return
		}
		features, err := h.recognizer.Features(data)
		if err != nil {
			writeRecognizerError(w, r, h.log, "[api.CreateSample]", err)
			return
		}
		sample.Features = features
		sample.Source = store.SourceImage
	}

	if err := h.store.Samples().Create(sample); err != nil {
		h.internalError(w, r, "[api.CreateSample] failed to store sample", err)
		return
	}

	writeJSON(w, http.StatusCreated, sample)
}

// List handles GET /samples, optionally filtered by ?label=.
func (h *SamplesHandler) List(w http.ResponseWriter, r *http.Request) {
	samples, err := h.store.Samples().List(r.URL.Query().Get("label"))
	if err != nil {
		h.internalError(w, r, "[api.ListSamples] failed to list samples", err)
		return
	}
	writeJSON(w, http.StatusOK, listSamplesResponse{Samples: samples})
}

// Stats handles GET /samples/stats.
func (h *SamplesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Samples().Counts(h.recognizer.Labels())
	if err != nil {
		h.internalError(w, r, "[api.SampleStats] failed to count samples", err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Counts: counts})
}

// Export handles GET /samples/export and streams every sample as CSV with a
// label column followed by f0..f41.
func (h *SamplesHandler) Export(w http.ResponseWriter, r *http.Request) {
	samples, err := h.store.Samples().List(r.URL.Query().Get("label"))
	if err != nil {
		h.internalError(w, r, "[api.ExportSamples] failed to list samples", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="samples.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	header := make([]string, 0, gesture.FeatureSize+1)
	header = append(header, "label")
	for i := range gesture.FeatureSize {
		header = append(header, "f"+strconv.Itoa(i))
	}
	cw.Write(header)

	for _, s := range samples {
		row := make([]string, 0, len(s.Features)+1)
		row = append(row, s.Label)
		for _, f := range s.Features {
			row = append(row, strconv.FormatFloat(f, 'g', -1, 64))
		}
		cw.Write(row)
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		h.log.WithFields(logrus.Fields{
			logging.RequestIDKey: logging.RequestID(r.Context()),
			"error":              err,
		}).Warn("[api.ExportSamples] failed to write csv")
	}
}

// Delete handles DELETE /samples/{id}.
func (h *SamplesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Samples().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sample not found")
			return
		}
		h.internalError(w, r, "[api.DeleteSample] failed to delete sample", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteByLabel handles DELETE /gestures/{label}/samples.
func (h *SamplesHandler) DeleteByLabel(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]

	n, err := h.store.Samples().DeleteByLabel(label)
	if err != nil {
		h.internalError(w, r, "[api.DeleteSamples] failed to delete samples", err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

func (h *SamplesHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.WithFields(logrus.Fields{
		logging.RequestIDKey: logging.RequestID(r.Context()),
		"path":               r.URL.Path,
		"error":              err,
	}).Error(msg)
	writeError(w, http.StatusInternalServerError, MsgInternal)
}
