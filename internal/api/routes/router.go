package routes

import (
	"net/http"

	"github.com/caresteer/hospital-discovery/backend/internal/api/handlers"
	"github.com/caresteer/hospital-discovery/backend/internal/api/middleware"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	hospitalHandler *handlers.HospitalHandler
	triageHandler   *handlers.TriageHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router. triageHandler and cacheMiddleware may be
// nil when the corresponding dependency is not configured.
func NewRouter(
	hospitalHandler *handlers.HospitalHandler,
	triageHandler *handlers.TriageHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		hospitalHandler: hospitalHandler,
		triageHandler:   triageHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Hospital endpoints
	r.mux.HandleFunc("GET /api/hospitals/nearby", r.hospitalHandler.GetNearbyHospitals)
	r.mux.HandleFunc("GET /api/hospitals/enriched", r.hospitalHandler.GetEnrichedHospitals)
	r.mux.HandleFunc("GET /api/hospitals/suggest", r.hospitalHandler.SuggestHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{id}", r.hospitalHandler.GetHospital)
	r.mux.HandleFunc("POST /api/hospitals/recommend", r.hospitalHandler.RecommendHospitals)

	// Triage endpoint
	if r.triageHandler != nil {
		r.mux.HandleFunc("POST /api/triage", r.triageHandler.AssessTriage)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
