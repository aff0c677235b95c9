package handler

import (
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc      *service.AuthService
	interviewSvc *service.InterviewService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, interviewSvc *service.InterviewService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, interviewSvc: interviewSvc}
}

// Login handles POST /v1/auth/session
//
//	@Summary	Exchange a backend bearer token for a gateway token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.LoginRequest	true	"Backend token"
//	@Success	200		{object}	model.LoginResponse
//	@Failure	401		{object}	map[string]string
//	@Router		/v1/auth/session [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Token)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.Error("Login failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles DELETE /v1/auth/session
//
//	@Summary	Forget the backend token and close websocket connections
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Router		/v1/auth/session [delete]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetSessionKey(r.Context())
	h.interviewSvc.Logout(r.Context(), owner)
	if err := h.authSvc.Logout(r.Context(), owner); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to logout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
