package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Server-side password policy. The stronger client-side hint (8 chars plus
// complexity) is not enforced here; the 6-char minimum is authoritative.
const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	OfficeID string `json:"office_id" binding:"required"`
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	ActingPassword  string `json:"acting_password" binding:"required"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         model.Role `json:"role"`
	OfficeID     *uuid.UUID `json:"office_id"`
	OfficeName   string     `json:"office_name"`
	RequestCount int64      `json:"request_count"`
	CreatedAt    string     `json:"created_at"`
}

// UserService is the account directory. Deletion is guarded three ways:
// never self, never an admin, never an account that has submitted requests.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	DeleteUser(ctx context.Context, actor model.Actor, targetID uuid.UUID, actingPassword string) error
	ChangePassword(ctx context.Context, actor model.Actor, targetID uuid.UUID, req ChangePasswordRequest) error
}

type userService struct {
	userRepo   repository.UserRepository
	officeRepo repository.OfficeRepository
	auth       AuthService
}

func NewUserService(userRepo repository.UserRepository, officeRepo repository.OfficeRepository, auth AuthService) UserService {
	return &userService{userRepo: userRepo, officeRepo: officeRepo, auth: auth}
}

func toUserResponse(user *model.User, requestCount int64) UserResponse {
	resp := UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         user.Role,
		OfficeID:     user.OfficeID,
		RequestCount: requestCount,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
	if user.Office != nil {
		resp.OfficeName = user.Office.Name
	}
	return resp
}

// CreateUser registers an office head. Accounts created through this path
// are never admins.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)

	if username == "" || email == "" || fullName == "" || req.Password == "" || req.OfficeID == "" {
		return nil, apperror.Validationf("all fields are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if !emailRegex.MatchString(email) {
		return nil, apperror.Validationf("invalid email format")
	}

	officeID, err := uuid.Parse(req.OfficeID)
	if err != nil {
		return nil, apperror.Validationf("invalid office id")
	}
	office, err := s.officeRepo.FindByID(ctx, officeID)
	if err != nil {
		return nil, apperror.Validationf("office does not exist")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperror.Storage("check duplicate user", err)
	}
	if exists {
		return nil, apperror.Duplicate("username or email")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Storage("hash password", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hash,
		FullName: fullName,
		Role:     model.RoleOfficeHead,
		OfficeID: &officeID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.Storage("create user", err)
	}
	user.Office = office

	resp := toUserResponse(user, 0)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, apperror.Storage("load user", err)
	}

	count, err := s.userRepo.CountRequests(ctx, id)
	if err != nil {
		return nil, apperror.Storage("count requests", err)
	}

	resp := toUserResponse(user, count)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("list users", err)
	}
	counts, err := s.userRepo.RequestCounts(ctx)
	if err != nil {
		return nil, apperror.Storage("count requests", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i], counts[users[i].ID]))
	}
	return responses, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor model.Actor, targetID uuid.UUID, actingPassword string) error {
	if targetID == actor.UserID {
		return apperror.Validationf("cannot delete your own account")
	}
	if err := s.auth.VerifyPassword(ctx, actor.UserID, actingPassword); err != nil {
		return err
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if err != nil {
		return apperror.Storage("load user", err)
	}
	if target.Role == model.RoleAdmin {
		return apperror.Validationf("admin accounts cannot be deleted")
	}

	count, err := s.userRepo.CountRequests(ctx, targetID)
	if err != nil {
		return apperror.Storage("count requests", err)
	}
	if count > 0 {
		return apperror.Referenced("user", count)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return apperror.Storage("delete user", err)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, actor model.Actor, targetID uuid.UUID, req ChangePasswordRequest) error {
	if err := s.auth.VerifyPassword(ctx, actor.UserID, req.ActingPassword); err != nil {
		return err
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperror.Validationf("new password must be at least %d characters", minPasswordLength)
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperror.Validationf("passwords do not match")
	}

	if _, err := s.userRepo.FindByID(ctx, targetID); errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	} else if err != nil {
		return apperror.Storage("load user", err)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Storage("hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, targetID, hash); err != nil {
		return apperror.Storage("update password", err)
	}
	return nil
}
