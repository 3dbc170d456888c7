package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"pulsecheck/internal/service"
	"pulsecheck/internal/transport/rest/handler"
	"pulsecheck/internal/transport/rest/middleware"
	"pulsecheck/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	AnalyticsService  *service.AnalyticsService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	catalogHandler := handler.NewCatalogHandler(c.AssessmentService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/catalogs/{assessmentType}/{version}", catalogHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/ops/feed", wsHandler.FeedWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require session auth)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/assessments/{sessionId}", assessmentHandler.GetState).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/answers", assessmentHandler.SelectOption).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/advance", assessmentHandler.Advance).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/retreat", assessmentHandler.Retreat).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/abandon", assessmentHandler.Abandon).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/assessments/{sessionId}/result", assessmentHandler.GetResult).Methods("GET", "OPTIONS")

	// Ops routes (require ops auth)
	opsRoutes := v1.NewRoute().Subrouter()
	opsRoutes.Use(authMW.RequireOps)

	opsRoutes.HandleFunc("/analytics/{assessmentType}", analyticsHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
