package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pulsecheck/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues session-scoped tokens for participants and an ops
// token for the dashboard.
type AuthService struct {
	opsUsername string
	opsPassword string
	jwtSecret   []byte
}

// NewAuthService creates a new auth service from environment credentials.
func NewAuthService() *AuthService {
	username := os.Getenv("OPS_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("OPS_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		opsUsername: username,
		opsPassword: password,
		jwtSecret:   []byte(secret),
	}
}

// Login validates ops credentials and returns a token for the dashboard.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.opsUsername || password != s.opsPassword {
		return nil, ErrInvalidCredentials
	}

	opsID := "ops_" + uuid.New().String()[:8]
	claims := &model.OpsClaims{
		OpsID: opsID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: tokenString, OpsID: opsID}, nil
}

// ValidateOpsToken validates an ops JWT and returns its claims.
func (s *AuthService) ValidateOpsToken(tokenString string) (*model.OpsClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OpsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OpsClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSessionToken creates a token scoped to one flow instance.
func (s *AuthService) GenerateSessionToken(sessionID, assessmentType string) (string, error) {
	claims := &model.SessionClaims{
		SessionID:      sessionID,
		AssessmentType: assessmentType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns its claims.
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
