package service

import (
	"crypto/subtle"

	"github.com/quokka-community/migration-backend/internal/common"
	"github.com/quokka-community/migration-backend/internal/domain"
	"github.com/quokka-community/migration-backend/internal/repository"
	"github.com/quokka-community/migration-backend/pkg/jwt"
)

// LoginResponse login response
type LoginResponse struct {
	User         *domain.UserResponse `json:"user"`
	Token        string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
}

// AuthService authentication business logic
type AuthService interface {
	Login(userID, passwordHash string) (*LoginResponse, error)
	Refresh(refreshToken string) (*LoginResponse, error)
	GetUser(userID string) (*domain.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Login authenticates a user and returns a bearer token. The embedding
// page hands the widget the stored password hash, so the credential is
// compared verbatim against the stored value.
func (s *authService) Login(userID, passwordHash string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUserID(userID)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(passwordHash), []byte(user.Password)) != 1 {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// user is reloaded so level changes since login take effect.
func (s *authService) Refresh(refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUserID(claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (*LoginResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(user.UserID, user.Nickname, user.Level)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(user.UserID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user.ToResponse(),
		Token:        token,
		RefreshToken: refresh,
	}, nil
}

// GetUser returns the user for an authenticated user id
func (s *authService) GetUser(userID string) (*domain.User, error) {
	return s.userRepo.FindByUserID(userID)
}
