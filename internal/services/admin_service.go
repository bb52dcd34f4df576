package services

import (
	"context"
	"errors"
	"strings"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/repositories/admin"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdminService interface {
	// Wipe удаляет все заказы, отклики, сообщения, уведомления и оценки,
	// обнуляет репутацию и портфолио. Пользователи остаются.
	Wipe(ctx context.Context, caller auth.Caller) (*admin.WipeResult, error)
	ListUsers(db *gorm.DB, caller auth.Caller, query *dto.AdminUserQuery, page, limit int) (*dto.AdminUserListResponse, error)
	Stats(db *gorm.DB, caller auth.Caller) (*dto.PlatformStats, error)

	ListBlacklist(db *gorm.DB, caller auth.Caller) ([]models.Blacklist, error)
	AddToBlacklist(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.BlacklistRequest) (*models.Blacklist, error)
	RemoveFromBlacklist(ctx context.Context, db *gorm.DB, caller auth.Caller, id string) error

	// EnsureAdmin создаёт администратора при первом запуске, если его ещё нет
	EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error
}

type AdminServiceImpl struct {
	wipeRepo        admin.WipeRepository
	userRepo        repositories.UserRepository
	jobRepo         repositories.JobRepository
	applicationRepo repositories.ApplicationRepository
	chatRepo        repositories.ChatRepository
	blacklistRepo   repositories.BlacklistRepository
}

func NewAdminService(
	wipeRepo admin.WipeRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	chatRepo repositories.ChatRepository,
	blacklistRepo repositories.BlacklistRepository,
) AdminService {
	return &AdminServiceImpl{
		wipeRepo:        wipeRepo,
		userRepo:        userRepo,
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		chatRepo:        chatRepo,
		blacklistRepo:   blacklistRepo,
	}
}

func (s *AdminServiceImpl) Wipe(ctx context.Context, caller auth.Caller) (*admin.WipeResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	res, err := s.wipeRepo.Wipe(ctx)
	if err != nil {
		logger.CtxWithError(ctx, "data wipe failed", err, "admin_id", caller.UserID)
		return nil, apperrors.InternalError(err)
	}
	logger.CtxWarn(ctx, "data wiped",
		"admin_id", caller.UserID,
		"jobs", res.Jobs,
		"applications", res.Applications,
		"ratings", res.Ratings,
		"messages", res.ChatMessages,
		"users_reset", res.UsersReset,
	)
	return &res, nil
}

func (s *AdminServiceImpl) ListUsers(db *gorm.DB, caller auth.Caller, query *dto.AdminUserQuery, page, limit int) (*dto.AdminUserListResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	filter := repositories.Filter{}
	var sort repositories.SortSpec
	if query != nil {
		if query.UserType != "" {
			filter["user_type"] = query.UserType
		}
		if query.Status != "" {
			filter["status"] = query.Status
		}
		sort = repositories.SortSpec(query.Sort)
	}

	users, total, err := s.userRepo.List(db, filter, sort, limit, (page-1)*limit)
	if err != nil {
		return nil, handleRepoError(err, nil)
	}
	return &dto.AdminUserListResponse{Users: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *AdminServiceImpl) Stats(db *gorm.DB, caller auth.Caller) (*dto.PlatformStats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	users, err := s.userRepo.CountByType(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	jobs, err := s.jobRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	applications, err := s.applicationRepo.Count(db, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	messages, err := s.chatRepo.Count(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PlatformStats{
		UsersByType:  users,
		JobsByStatus: jobs,
		Applications: applications,
		Messages:     messages,
	}, nil
}

func (s *AdminServiceImpl) ListBlacklist(db *gorm.DB, caller auth.Caller) ([]models.Blacklist, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	entries, err := s.blacklistRepo.List(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return entries, nil
}

// AddToBlacklist вносит пользователя в чёрный список и банит его
func (s *AdminServiceImpl) AddToBlacklist(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.BlacklistRequest) (*models.Blacklist, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if req.UserID == caller.UserID {
		return nil, apperrors.NewBadRequestError("cannot blacklist yourself")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByIDForUpdate(tx, req.UserID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}
	if user.IsAdmin() {
		return nil, apperrors.NewForbiddenError("administrators cannot be blacklisted")
	}

	listed, err := s.blacklistRepo.IsBlacklisted(tx, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if listed {
		return nil, apperrors.ErrAlreadyExists(errors.New("user is already blacklisted"))
	}

	entry := &models.Blacklist{
		UserID:  user.ID,
		Reason:  strings.TrimSpace(req.Reason),
		AddedBy: caller.UserID,
	}
	if err := s.blacklistRepo.Create(tx, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if _, err := s.userRepo.Update(tx, user.ID, repositories.Fields{"status": models.UserStatusBanned}); err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user blacklisted", "user_id", user.ID, "admin_id", caller.UserID)
	return entry, nil
}

// RemoveFromBlacklist снимает запись и возвращает пользователю статус active
func (s *AdminServiceImpl) RemoveFromBlacklist(ctx context.Context, db *gorm.DB, caller auth.Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	entry, err := s.blacklistRepo.FindByID(tx, id)
	if err != nil {
		return handleRepoError(err, nil)
	}
	if err := s.blacklistRepo.Delete(tx, entry.ID); err != nil {
		return handleRepoError(err, nil)
	}

	listed, err := s.blacklistRepo.IsBlacklisted(tx, entry.UserID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !listed {
		_, err := s.userRepo.Update(tx, entry.UserID, repositories.Fields{"status": models.UserStatusActive})
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user removed from blacklist", "user_id", entry.UserID, "admin_id", caller.UserID)
	return nil
}

func (s *AdminServiceImpl) EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.userRepo.FindByEmail(db, email); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
		FullName:     "Administrator",
	}
	if err := s.userRepo.Create(db, user); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return err
	}
	logger.CtxInfo(ctx, "first admin created", "email", user.Email)
	return nil
}
