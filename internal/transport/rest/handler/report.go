package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"surveylens/internal/service"
	"surveylens/internal/transport/rest/middleware"
)

// ReportHandler handles analysis endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Analyze handles POST /v1/surveys/{surveyId}/analyze.
// The run is synchronous; progress is pushed over the host WebSocket.
func (h *ReportHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	run, err := h.reportSvc.RunAnalysis(r.Context(), claims, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// GetSummaries handles GET /v1/surveys/{surveyId}/summaries
func (h *ReportHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summaries, err := h.reportSvc.GetSummaries(r.Context(), claims, surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summaries": summaries})
}
