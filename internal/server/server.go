// Package server provides the HTTP server for the mudra gesture recognizer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 60 * time.Second
	WriteTimeout      = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Config holds the server configuration.
type Config struct {
	Recognizer *recognizer.Recognizer

	// Store enables the sample collection API when set.
	Store *store.Store

	// StaticDir, when set, serves a web client under /app/.
	StaticDir string

	// Window is the smoothing window for WebSocket streams.
	Window int

	Logger *logrus.Logger
}

// Server represents the HTTP server.
type Server struct {
	config  Config
	router  *mux.Router
	handler http.Handler
	log     *logrus.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	s := &Server{
		config: config,
		router: mux.NewRouter(),
		log:    config.Logger,
	}
	s.setupRoutes()
	s.handler = requestID(accessLog(s.log)(cors(s.router)))
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	validate := validator.New()

	if s.config.Recognizer != nil {
		predict := api.NewPredictHandler(s.config.Recognizer, validate, s.log)
		s.router.HandleFunc("/predict_image", predict.Predict).Methods(http.MethodPost)
		s.router.HandleFunc("/labels", predict.Labels).Methods(http.MethodGet)
		s.router.Handle("/ws/predict", NewPredictSocket(s.config.Recognizer, s.config.Window, s.log)).Methods(http.MethodGet)
	}

	// Register sample API if Store is configured
	if s.config.Store != nil && s.config.Recognizer != nil {
		samples := api.NewSamplesHandler(s.config.Store, s.config.Recognizer, validate, s.log)
		s.router.HandleFunc("/samples", samples.Create).Methods(http.MethodPost)
		s.router.HandleFunc("/samples", samples.List).Methods(http.MethodGet)
		s.router.HandleFunc("/samples/stats", samples.Stats).Methods(http.MethodGet)
		s.router.HandleFunc("/samples/export", samples.Export).Methods(http.MethodGet)
		s.router.HandleFunc("/samples/{id}", samples.Delete).Methods(http.MethodDelete)
		s.router.HandleFunc("/gestures/{label}/samples", samples.DeleteByLabel).Methods(http.MethodDelete)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		s.router.PathPrefix("/app/").Handler(http.StripPrefix("/app/", http.FileServer(http.Dir(s.config.StaticDir))))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// handleHealth handles GET /.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:      "ok",
		ModelLoaded: s.config.Recognizer != nil,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("[server] listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
