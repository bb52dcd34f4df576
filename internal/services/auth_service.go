package services

import (
	"context"
	"errors"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// IssueToken выпускает токен для уже загруженного пользователя
	IssueToken(user *models.User) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	blacklistRepo repositories.BlacklistRepository
}

func NewAuthService(userRepo repositories.UserRepository, blacklistRepo repositories.BlacklistRepository) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		blacklistRepo: blacklistRepo,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		UserType:     req.UserType,
		Status:       models.UserStatusActive,
		FullName:     req.FullName,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "user_type", user.UserType)
	return s.IssueToken(user)
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.checkUserStatus(db, user); err != nil {
		logger.CtxWarn(ctx, "login refused", "user_id", user.ID, "status", user.Status)
		return nil, err
	}

	return s.IssueToken(user)
}

func (s *AuthServiceImpl) IssueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, string(user.UserType))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(auth.TokenTTL().Seconds()),
		User:        user,
	}, nil
}

func (s *AuthServiceImpl) checkUserStatus(db *gorm.DB, user *models.User) error {
	switch user.Status {
	case models.UserStatusSuspended:
		return apperrors.ErrUserSuspended
	case models.UserStatusBanned:
		return apperrors.ErrUserBanned
	}

	blocked, err := s.blacklistRepo.IsBlacklisted(db, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if blocked {
		return apperrors.ErrUserBanned
	}
	return nil
}
