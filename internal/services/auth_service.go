package services

import (
	"shiftscore_backend/internal/auth"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=nurse employer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthenticatedUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
}

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        AuthenticatedUser `json:"user"`
}

type AuthService interface {
	Register(db *gorm.DB, req *RegisterRequest) (*LoginResponse, error)
	Login(db *gorm.DB, req *LoginRequest) (*LoginResponse, error)
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req *RegisterRequest) (*LoginResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	role := models.UserRoleNurse
	if req.Role == string(models.UserRoleEmployer) {
		role = models.UserRoleEmployer
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         role,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrForbidden
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	return s.userRepo.Update(db, user)
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &LoginResponse{
		AccessToken: accessToken,
		User: AuthenticatedUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        string(user.Role),
		},
	}, nil
}
