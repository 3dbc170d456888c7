package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pulsecheck/internal/model"
	"pulsecheck/internal/service"
	"pulsecheck/internal/transport/rest/middleware"
)

// AssessmentHandler handles the participant-facing flow endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

type startRequest struct {
	AssessmentType string `json:"assessmentType"`
	Version        string `json:"assessmentVersion"`
}

type selectOptionRequest struct {
	OptionID string `json:"optionId"`
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Version == "" {
		req.Version = string(model.CatalogVersionV1)
	}

	resp, err := h.assessmentSvc.Start(r.Context(), req.AssessmentType, model.CatalogVersion(req.Version))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetState handles GET /v1/assessments/{sessionId}
func (h *AssessmentHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	state, err := h.assessmentSvc.GetState(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SelectOption handles POST /v1/assessments/{sessionId}/answers
func (h *AssessmentHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req selectOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OptionID == "" {
		writeError(w, http.StatusBadRequest, "optionId is required")
		return
	}

	state, err := h.assessmentSvc.SelectOption(r.Context(), sessionID, req.OptionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Advance handles POST /v1/assessments/{sessionId}/advance
func (h *AssessmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	state, err := h.assessmentSvc.Advance(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Retreat handles POST /v1/assessments/{sessionId}/retreat
func (h *AssessmentHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	state, err := h.assessmentSvc.Retreat(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Abandon handles POST /v1/assessments/{sessionId}/abandon
func (h *AssessmentHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.assessmentSvc.Abandon(r.Context(), sessionID); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Submit handles POST /v1/assessments/{sessionId}/submit
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	submissionID, state, err := h.assessmentSvc.Submit(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"submissionId": submissionID,
		"state":        state,
	})
}

// GetResult handles GET /v1/assessments/{sessionId}/result
func (h *AssessmentHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.assessmentSvc.GetResult(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if result == nil {
		writeError(w, http.StatusConflict, "assessment is not completed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// sessionFromRequest checks the path session against the token's session.
func (h *AssessmentHandler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return "", false
	}
	if claimed := middleware.GetSessionID(r.Context()); claimed != sessionID {
		writeError(w, http.StatusForbidden, "token not valid for this session")
		return "", false
	}
	return sessionID, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
