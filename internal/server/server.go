package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/VALOR/internal/config"
	"github.com/copyleftdev/VALOR/internal/experiment"
	"github.com/copyleftdev/VALOR/internal/fitting"
	"github.com/copyleftdev/VALOR/internal/logging"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Server implements the HTTP API for the discounting-model fitting
// service. It manages experiment sessions and serves one-shot fits.
type Server struct {
	cfg    *config.Config
	logger Logger
	space  experiment.ParameterSpace

	sessions *sessionStore
}

// NewServer creates a new server instance with the given config,
// logger and stimulus parameter space.
func NewServer(cfg *config.Config, logger Logger, space experiment.ParameterSpace) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		space:    space,
		sessions: newSessionStore(),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/fit", s.handleFit)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleSessionStatus)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Post("/sessions/{id}/trials", s.handleRecordTrial)
		r.Get("/sessions/{id}/fit", s.handleSessionFit)
	})
}

// fitOptions builds estimator options from the service configuration.
func (s *Server) fitOptions() fitting.Options {
	opts := fitting.Options{MaxIterations: s.cfg.Fitting.MaxIterations}
	if s.cfg.Fitting.InitialK > 0 && s.cfg.Fitting.InitialBeta > 0 {
		opts.InitialGuess = logGuess(s.cfg.Fitting.InitialK, s.cfg.Fitting.InitialBeta)
	}
	return opts
}

// handleFit runs a one-shot hyperbolic fit over a posted trial
// history. The response is the eight-field record the adaptive
// design process consumes.
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Trials []experiment.Trial `json:"trials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	data := make(fitting.Dataset, len(req.Trials))
	for i, t := range req.Trials {
		data[i] = t.Observation()
	}

	start := time.Now()
	fit, err := fitting.FitHyperbolic(data, s.fitOptions())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	observeFit(fit.Success, time.Since(start))

	s.logger.Info("Fit completed", map[string]interface{}{
		"trials":  len(req.Trials),
		"success": fit.Success,
		"nll":     fit.NLL,
	})
	s.respondJSON(w, http.StatusOK, fit)
}

// handleCreateSession starts a new experiment session. The optional
// "burnin" flag seeds it with the six standard burn-in trials.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Burnin bool `json:"burnin"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	session := experiment.NewSession(s.space, s.fitOptions())
	if req.Burnin {
		session.Burnin()
	}
	s.sessions.put(session)

	s.logger.Info("Session created", map[string]interface{}{
		"session_id": session.ID,
		"trials":     session.Len(),
	})
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": session.ID,
		"trials":     session.Len(),
	})
}

// handleSessionStatus reports a session's trial count and bounds.
func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":      session.ID,
		"created_at":      session.CreatedAt.Format(time.RFC3339),
		"trials":          session.Len(),
		"parameter_space": session.Space,
	})
}

// handleDeleteSession discards a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.delete(id) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	s.logger.Info("Session deleted", map[string]interface{}{
		"session_id": id,
	})
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRecordTrial appends one observed choice to a session.
func (s *Server) handleRecordTrial(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	var trial experiment.Trial
	if err := json.NewDecoder(r.Body).Decode(&trial); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := session.Record(trial); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"session_id": session.ID,
		"trials":     session.Len(),
	})
}

// handleSessionFit fits the session's accumulated history.
func (s *Server) handleSessionFit(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	start := time.Now()
	fit, err := session.Fit()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	observeFit(fit.Success, time.Since(start))

	s.logger.Info("Session fit completed", map[string]interface{}{
		"session_id": session.ID,
		"trials":     session.Len(),
		"success":    fit.Success,
	})
	s.respondJSON(w, http.StatusOK, fit)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  status,
		"message": message,
	})
	s.respondJSON(w, status, map[string]string{"error": message})
}

// Close discards all sessions.
func (s *Server) Close() error {
	s.sessions.clear()
	return nil
}
