// Package api provides the HTTP server for the Ascend progression engine.
// Feature clients (task, habit, routine, challenge screens) call it to grant
// XP and read progress.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ascend-app/ascend/internal/app/progression"
	"github.com/ascend-app/ascend/internal/infra/sqlite"
)

// Server is the Ascend HTTP API server.
type Server struct {
	svc            *progression.Service
	db             *sqlite.DB
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(svc *progression.Service, db *sqlite.DB) *Server {
	return &Server{svc: svc, db: db}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "Ascend is running"})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": "0.1.0"})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/progress", s.handleProgress)
		r.Post("/xp", s.handleAddXP)
		r.Post("/prestige", s.handlePrestige)
		r.Get("/snapshots", s.handleSnapshots)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{notifID}/shown", s.handleNotificationShown)
		r.Route("/streaks/{kind}/{activityID}", func(r chi.Router) {
			r.Get("/", s.handleGetStreak)
			r.Post("/", s.handleRecordCompletion)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
