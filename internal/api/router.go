package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/siphon/internal/api/handlers"
	"github.com/wonny/siphon/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: route setup happens in this function only
func NewRouter(
	candidateHandler *handlers.CandidateHandler,
	positionHandler *handlers.PositionHandler,
	scanHandler *handlers.ScanHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Pick lists
	api.HandleFunc("/candidates/latest", candidateHandler.GetLatest).Methods("GET")
	api.HandleFunc("/candidates", candidateHandler.GetByDate).Methods("GET")

	// Position book
	api.HandleFunc("/positions/active", positionHandler.GetActive).Methods("GET")
	api.HandleFunc("/positions/closed", positionHandler.GetClosed).Methods("GET")
	api.HandleFunc("/metrics", positionHandler.GetMetrics).Methods("GET")

	// Runs and scheduler health
	api.HandleFunc("/scan/run", scanHandler.Run).Methods("POST")
	api.HandleFunc("/jobs", scanHandler.GetJobs).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "siphon-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
