package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// PredictHandler serves single-image predictions.
type PredictHandler struct {
	recognizer *recognizer.Recognizer
	validate   *validator.Validate
	log        *logrus.Logger
}

// NewPredictHandler creates a PredictHandler.
func NewPredictHandler(rec *recognizer.Recognizer, validate *validator.Validate, log *logrus.Logger) *PredictHandler {
	return &PredictHandler{recognizer: rec, validate: validate, log: log}
}

type predictRequest struct {
	Image string `json:"image" validate:"required"`
}

// Predict handles POST /predict_image.
// The image is a data URI or bare base64 string.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, MsgNoImage)
		return
	}

	data, err := recognizer.DecodePayload(req.Image)
	if err != nil {
		writeRecognizerError(w, r, h.log, "[api.Predict]", err)
		return
	}

	pred, err := h.recognizer.RecognizeImage(data)
	if err != nil {
		writeRecognizerError(w, r, h.log, "[api.Predict]", err)
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

type labelsResponse struct {
	Labels []string `json:"labels"`
}

// Labels handles GET /labels.
func (h *PredictHandler) Labels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, labelsResponse{Labels: h.recognizer.Labels()})
}
