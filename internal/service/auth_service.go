package service

import (
	"context"
	"time"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AuthService issues session tokens and owns the re-auth gate: every
// destructive or status-changing operation re-verifies the acting user's own
// password before any write happens.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) error
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret []byte) AuthService {
	return &authService{userRepo: userRepo, jwtSecret: jwtSecret}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.OfficeID != nil {
		claims["office_id"] = user.OfficeID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperror.Storage("sign token", err)
	}

	return &TokenResponse{Token: signed, User: toUserResponse(user, 0)}, nil
}

// VerifyPassword is the re-auth gate. Any failure, including an unknown
// user, collapses into ErrInvalidCredentials.
func (s *authService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperror.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return apperror.ErrInvalidCredentials
	}
	return nil
}

// HashPassword applies the bcrypt policy used for all stored credentials.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
