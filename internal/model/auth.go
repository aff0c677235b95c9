package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are JWT claims for a gateway login. SessionKey points at
// the backend bearer token held in the token store.
type SessionClaims struct {
	SessionKey string `json:"sessionKey"`
	jwt.RegisteredClaims
}

// LoginRequest exchanges a backend bearer token for a gateway token
type LoginRequest struct {
	Token string `json:"token"`
}

// LoginResponse is returned after a successful gateway login
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Credits   *CreditBalance `json:"credits,omitempty"`
}

// ErrorResponse is the error body the backend returns on non-2xx
type ErrorResponse struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
