package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims scope a token to a single flow instance.
type SessionClaims struct {
	SessionID      string `json:"sessionId"`
	AssessmentType string `json:"assessmentType"`
	jwt.RegisteredClaims
}

// OpsClaims are carried by the operations dashboard token.
type OpsClaims struct {
	OpsID string `json:"opsId"`
	jwt.RegisteredClaims
}

// LoginRequest carries ops dashboard credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful ops login.
type LoginResponse struct {
	Token string `json:"token"`
	OpsID string `json:"opsId"`
}
