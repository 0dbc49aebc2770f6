package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveylens/internal/model"
	"surveylens/internal/service"
)

// ResponseHandler handles respondent submissions
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SubmitResponseRequest is the request body for a survey response
type SubmitResponseRequest struct {
	Answers []model.Answer `json:"answers"`
}

// Submit handles POST /v1/surveys/{surveyId}/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.responseSvc.Submit(r.Context(), surveyID, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"responseId": id})
}
