package handler

import (
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/middleware"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HistoryHandler lists past interviews, resumes and archived reports
type HistoryHandler struct {
	interviewSvc *service.InterviewService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(interviewSvc *service.InterviewService) *HistoryHandler {
	return &HistoryHandler{interviewSvc: interviewSvc}
}

// Resumes handles GET /v1/resumes
//
//	@Summary	Uploaded resumes
//	@Tags		history
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	model.ResumeSummary
//	@Router		/v1/resumes [get]
func (h *HistoryHandler) Resumes(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	resumes, err := h.interviewSvc.Resumes(r.Context(), owner)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

// Interviews handles GET /v1/history/interviews
//
//	@Summary	Past interviews as recorded by the backend
//	@Tags		history
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	model.InterviewHistoryItem
//	@Router		/v1/history/interviews [get]
func (h *HistoryHandler) Interviews(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	items, err := h.interviewSvc.InterviewHistory(r.Context(), owner)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Reports handles GET /v1/reports?limit=
//
//	@Summary	Reports archived by this gateway, newest first
//	@Tags		history
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query	int	false	"Maximum number of reports"
//	@Success	200		{array}	model.ReportRecord
//	@Router		/v1/reports [get]
func (h *HistoryHandler) Reports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	owner := middleware.GetSessionKey(r.Context())
	records, err := h.interviewSvc.ArchivedReports(r.Context(), owner, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Report handles GET /v1/reports/{sessionId}
//
//	@Summary	One archived report
//	@Tags		history
//	@Security	BearerAuth
//	@Produce	json
//	@Param		sessionId	path		int	true	"Session ID"
//	@Success	200			{object}	model.ReportRecord
//	@Failure	404			{object}	map[string]string
//	@Router		/v1/reports/{sessionId} [get]
func (h *HistoryHandler) Report(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(mux.Vars(r)["sessionId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	owner := middleware.GetSessionKey(r.Context())
	record, err := h.interviewSvc.ArchivedReport(r.Context(), owner, sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
