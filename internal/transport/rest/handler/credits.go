package handler

import (
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/middleware"
	"log/slog"
	"net/http"
)

// CreditsHandler exposes the caller's credit balance
type CreditsHandler struct {
	interviewSvc *service.InterviewService
}

// NewCreditsHandler creates a new credits handler
func NewCreditsHandler(interviewSvc *service.InterviewService) *CreditsHandler {
	return &CreditsHandler{interviewSvc: interviewSvc}
}

// Get handles GET /v1/credits
//
//	@Summary	Cached credit balance
//	@Tags		credits
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.CreditBalance
//	@Router		/v1/credits [get]
func (h *CreditsHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	balance, err := h.interviewSvc.Credits(r.Context(), owner)
	if err != nil {
		slog.Warn("Failed to load credits", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Refresh handles POST /v1/credits/refresh
//
//	@Summary	Reload the credit balance from the backend
//	@Tags		credits
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.CreditBalance
//	@Router		/v1/credits/refresh [post]
func (h *CreditsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	balance, err := h.interviewSvc.RefreshCredits(r.Context(), owner)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// History handles GET /v1/credits/history
//
//	@Summary	Credit transactions
//	@Tags		credits
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	model.CreditTransaction
//	@Router		/v1/credits/history [get]
func (h *CreditsHandler) History(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	txs, err := h.interviewSvc.CreditHistory(r.Context(), owner)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
