package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"pulsecheck/internal/service"
)

// AnalyticsHandler serves funnel counters to the ops dashboard
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Stats handles GET /v1/analytics/{assessmentType}
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	assessmentType := mux.Vars(r)["assessmentType"]

	stats, err := h.analyticsSvc.Stats(r.Context(), assessmentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
