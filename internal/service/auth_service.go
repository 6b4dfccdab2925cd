package service

import (
	"context"
	"log/slog"

	"splitbook/internal/auth"
	"splitbook/internal/models"
)

// AuthService ties an Authenticator to JWT session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new account and returns the user with a session token.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// ValidateToken checks a session token and returns its claims.
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwtManager.Validate(token)
}
