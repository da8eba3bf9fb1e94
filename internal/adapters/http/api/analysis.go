package api

import "net/http"

// AnalysisHandler serves per-user analysis and skill estimates.
type AnalysisHandler struct {
	deps Dependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps Dependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleAnalysis handles GET /users/{id}/analysis requests.
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "api.analysis")
	if !ok {
		return
	}
	report, err := h.deps.Analyze(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleSkill handles GET /users/{id}/skill requests.
func (h *AnalysisHandler) HandleSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "api.skill")
	if !ok {
		return
	}
	est, err := h.deps.Skill(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
