package handler

import (
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
	"context"
	"errors"
	"net/http"
)

// statusFor maps a service or machine error onto an HTTP status
func statusFor(err error) int {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, model.ErrRoleRequired),
		errors.Is(err, model.ErrInvalidExperience),
		errors.Is(err, model.ErrInvalidDifficulty),
		errors.Is(err, model.ErrTechStackRequired),
		errors.Is(err, interview.ErrEmptyAnswer):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, interview.ErrCreditsUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, interview.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, interview.ErrBusy),
		errors.Is(err, interview.ErrWrongState),
		errors.Is(err, interview.ErrNotLive),
		errors.Is(err, interview.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, interview.ErrQuestionTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}
