package api

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/riskval/internal/api/handlers"
	"github.com/wonny/riskval/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	metricsHandler *handlers.MetricsHandler,
	validateHandler *handlers.ValidateHandler,
	schemaHandler *handlers.SchemaHandler,
	hub *Hub,
	registry *MetricsRegistry,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Prometheus scrape endpoint
	r.Handle("/metrics", registry.Handler()).Methods("GET")

	// Run summary stream
	r.HandleFunc("/ws", hub.Serve).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Risk metrics endpoints
	api.HandleFunc("/metrics", metricsHandler.Compute).Methods("POST")
	api.HandleFunc("/metrics/batch", metricsHandler.ComputeBatch).Methods("POST")

	// Validation endpoints
	api.HandleFunc("/validate", validateHandler.Validate).Methods("POST")
	api.HandleFunc("/schema/validate", schemaHandler.Validate).Methods("POST")

	// Apply middleware (api 경로만 레이트 리밋)
	api.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(10), 20), registry))
	r.Use(instrumentMiddleware(registry))
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "riskval-api",
	})
}

// statusRecorder captures the response status for instrumentation
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack 웹소켓 업그레이드가 래핑된 응답에서도 동작하도록 위임
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// rateLimitMiddleware rejects requests over the shared token bucket
func rateLimitMiddleware(limiter *rate.Limiter, registry *MetricsRegistry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				registry.RateLimited.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// instrumentMiddleware records request counts and latencies
func instrumentMiddleware(registry *MetricsRegistry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			registry.RequestDuration.WithLabelValues(r.URL.Path, r.Method).
				Observe(time.Since(start).Seconds())
			registry.RequestTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.status)).Inc()
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
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
