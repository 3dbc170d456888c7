package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"pulsecheck/internal/model"
	"pulsecheck/internal/service"
)

// CatalogHandler serves the questionnaire definitions
type CatalogHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(assessmentSvc *service.AssessmentService) *CatalogHandler {
	return &CatalogHandler{assessmentSvc: assessmentSvc}
}

// Get handles GET /v1/catalogs/{assessmentType}/{version}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	assessmentType := vars["assessmentType"]
	version := model.CatalogVersion(vars["version"])

	catalog, err := h.assessmentSvc.GetCatalog(r.Context(), assessmentType, version)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, catalog)
}
