// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"shoplite-agent/internal/config"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/utils"
)

// AuthService authenticates the single configured device user and owns the
// session principal that namespaces all remote data.
type AuthService struct {
	config       *config.Config
	session      *session.Session
	passwordHash []byte
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // hours
}

func NewAuthService(cfg *config.Config, sess *session.Session) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash device password: %w", err)
	}

	return &AuthService{
		config:       cfg,
		session:      sess,
		passwordHash: hash,
	}, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.Username != s.config.Auth.Username ||
		bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.GenerateJWT(s.config.Auth.UserID, req.Username, s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.session.SetPrincipal(s.config.Auth.UserID)

	return &AuthResponse{
		UserID:    s.config.Auth.UserID,
		Username:  req.Username,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.config.JWT.AccessTokenTTL,
	}, nil
}

// Logout clears the session principal, turning any in-flight or future
// remote work into a no-op until the next login.
func (s *AuthService) Logout() {
	s.session.Clear()
}
