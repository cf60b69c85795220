// Package api provides the HTTP handlers for prediction and sample collection.
package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxBodyBytes caps request bodies; images arrive base64 encoded.
const MaxBodyBytes = 50 << 20

// Error messages returned to clients.
const (
	MsgInvalidJSON      = "Invalid JSON"
	MsgNoImage          = "No image provided"
	MsgDecodeFailed     = "Could not decode image"
	MsgNoHand           = "No hand detected"
	MsgPredictionFailed = "Prediction failed"
	MsgInternal         = "Internal server error"
)

// errorResponse represents an error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ErrorMessage maps a recognizer error to a status code and client message.
func ErrorMessage(err error) (int, string) {
	switch {
	case errors.Is(err, recognizer.ErrInvalidInput):
		return http.StatusBadRequest, MsgNoImage
	case errors.Is(err, recognizer.ErrInvalidImage):
		return http.StatusBadRequest, MsgDecodeFailed
	case errors.Is(err, recognizer.ErrNoHandDetected):
		return http.StatusBadRequest, MsgNoHand
	case errors.Is(err, recognizer.ErrInference):
		return http.StatusBadRequest, MsgPredictionFailed
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// writeRecognizerError logs err and writes the matching error response.
func writeRecognizerError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, where string, err error) {
	status, msg := ErrorMessage(err)
	entry := log.WithFields(logrus.Fields{
		logging.RequestIDKey: logging.RequestID(r.Context()),
		"path":               r.URL.Path,
		"error":              err,
	})
	if status >= http.StatusInternalServerError || errors.Is(err, recognizer.ErrInference) {
		entry.Error(where + " " + msg)
	} else {
		entry.Info(where + " " + msg)
	}
	writeError(w, status, msg)
}

// decodeJSON reads a JSON object body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
