package handler

import (
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
)

// InterviewHandler drives the interview state machine of the caller
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// submitAnswerRequest is the body of POST /v1/interview/answer
type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

// snapshotError is returned when an intent fails; the snapshot still
// reflects where the machine ended up.
type snapshotError struct {
	Error    string             `json:"error"`
	Snapshot interview.Snapshot `json:"snapshot"`
}

// Get handles GET /v1/interview
//
//	@Summary	Current interview snapshot
//	@Tags		interview
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	interview.Snapshot
//	@Router		/v1/interview [get]
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	writeJSON(w, http.StatusOK, h.interviewSvc.Snapshot(r.Context(), owner))
}

// Setup handles POST /v1/interview/setup
//
//	@Summary	Create a profile, start a session and load the first question
//	@Tags		interview
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.ProfileRequest	true	"Interview profile"
//	@Success	200		{object}	interview.Snapshot
//	@Failure	400		{object}	snapshotError
//	@Failure	402		{object}	snapshotError
//	@Failure	504		{object}	snapshotError
//	@Router		/v1/interview/setup [post]
func (h *InterviewHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := middleware.GetSessionKey(r.Context())
	snap, err := h.interviewSvc.BeginSetup(r.Context(), owner, req)
	writeSnapshot(w, snap, err)
}

// Answer handles POST /v1/interview/answer
//
//	@Summary	Submit an answer to the current question
//	@Tags		interview
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		submitAnswerRequest	true	"Answer"
//	@Success	200		{object}	interview.Snapshot
//	@Failure	409		{object}	snapshotError
//	@Router		/v1/interview/answer [post]
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := middleware.GetSessionKey(r.Context())
	snap, err := h.interviewSvc.SubmitAnswer(r.Context(), owner, req.Answer)
	writeSnapshot(w, snap, err)
}

// Abandon handles POST /v1/interview/abandon
//
//	@Summary	Leave the live interview
//	@Tags		interview
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	interview.Snapshot
//	@Router		/v1/interview/abandon [post]
func (h *InterviewHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	snap, err := h.interviewSvc.Abandon(r.Context(), owner)
	writeSnapshot(w, snap, err)
}

// DismissError handles DELETE /v1/interview/error
//
//	@Summary	Dismiss the current error notice
//	@Tags		interview
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	interview.Snapshot
//	@Router		/v1/interview/error [delete]
func (h *InterviewHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	writeJSON(w, http.StatusOK, h.interviewSvc.DismissError(r.Context(), owner))
}

// Report handles GET /v1/interview/report
//
//	@Summary	Report of the completed interview
//	@Tags		interview
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.Report
//	@Failure	404	{object}	map[string]string
//	@Router		/v1/interview/report [get]
func (h *InterviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	report := h.interviewSvc.Report(r.Context(), owner)
	if report == nil {
		writeError(w, http.StatusNotFound, "no completed interview")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeSnapshot(w http.ResponseWriter, snap interview.Snapshot, err error) {
	if err != nil {
		message := snap.Error
		if message == "" {
			message = err.Error()
		}
		writeJSON(w, statusFor(err), snapshotError{Error: message, Snapshot: snap})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
