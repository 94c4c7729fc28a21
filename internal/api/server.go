// Package api provides the REST surface over the analysis pipeline and
// the flight-plan store.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"flight_insight/internal/analysis"
	"flight_insight/internal/flightplan"
	"flight_insight/internal/storage"
)

// Server serves the analysis endpoints. The store is optional: without one
// the flights endpoints report 503 and the analysis endpoints still work.
type Server struct {
	analyzer    *analysis.Analyzer
	store       storage.FlightStore
	port        int
	authEnabled bool
	apiKeys     map[string]bool
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string
}

// NewServer creates an API server around an analyzer and an optional store.
func NewServer(analyzer *analysis.Analyzer, store storage.FlightStore, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	return &Server{
		analyzer:    analyzer,
		store:       store,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Mount("/api/v1", s.Router())

	addr := ":" + strconv.Itoa(s.port)
	log.Printf("Flight Insight API starting at http://localhost%s", addr)
	if s.authEnabled {
		log.Printf("Authentication: ENABLED (API key required)")
	} else {
		log.Printf("Authentication: DISABLED (open access)")
	}

	return http.ListenAndServe(addr, r)
}

// Router returns the configured chi router for embedding in other servers
// and for tests.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Optional authentication.
	if s.authEnabled {
		r.Use(s.authMiddleware)
	}

	r.Get("/health", s.handleHealth)

	// Analysis over a posted batch.
	r.Post("/validate", s.handleValidate)
	r.Post("/trajectory", s.handleTrajectory)
	r.Post("/conflicts", s.handleConflicts)
	r.Post("/hotspots", s.handleHotspots)
	r.Post("/propose", s.handlePropose)
	r.Post("/apply", s.handleApply)
	r.Post("/analyze", s.handleAnalyze)

	// Stored flight batches.
	r.Get("/flights", s.handleLoadFlights)
	r.Post("/flights", s.handleSaveFlights)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")

		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBatch reads a JSON array of flight records from the request body.
func decodeBatch(w http.ResponseWriter, r *http.Request) ([]json.RawMessage, bool) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return nil, false
	}
	return payload, true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	_, issues := s.analyzer.ParseFlights(payload)
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	flights, _ := s.analyzer.ParseFlights(payload)
	trajectories, _, err := s.analyzer.BuildTrajectories(r.Context(), flights)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trajectories)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Conflicts)
}

func (s *Server) handleHotspots(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Hotspots)
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result.Proposals)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	result, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*analysis.Result, bool) {
	payload, ok := decodeBatch(w, r)
	if !ok {
		return nil, false
	}
	result, err := s.analyzer.Analyze(r.Context(), payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return result, true
}

// ApplyRequest carries a batch and the accepted resolutions to fold in.
type ApplyRequest struct {
	Flights []json.RawMessage `json:"flights"`
	Actions []analysis.Action `json:"actions"`
}

// ApplyResponse returns parse issues and the revised flight plans.
type ApplyResponse struct {
	Issues  []string                 `json:"issues"`
	Revised []*flightplan.FlightPlan `json:"revised"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	flights, issues := s.analyzer.ParseFlights(req.Flights)
	revised := s.analyzer.Apply(flights, req.Actions)

	writeJSON(w, http.StatusOK, ApplyResponse{Issues: issues, Revised: revised})
}

func (s *Server) handleLoadFlights(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "No flight store configured")
		return
	}

	records, err := s.store.LoadBatch(r.Context(), r.URL.Query().Get("batch"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSaveFlights(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "No flight store configured")
		return
	}

	payload, ok := decodeBatch(w, r)
	if !ok {
		return
	}

	count, err := s.store.SaveBatch(r.Context(), r.URL.Query().Get("batch"), payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
	})
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
