package services

import (
	"context"
	"slices"
	"strings"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/internal/storage"
	"kandu_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService interface {
	GetMe(db *gorm.DB, caller auth.Caller) (*models.User, error)
	UpdateMe(db *gorm.DB, caller auth.Caller, req *dto.UpdateProfileRequest) (*models.User, error)
	// SetUserType - онбординг: тип выбирается один раз, в ответе новый токен
	SetUserType(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.SetUserTypeRequest) (*dto.AuthResponse, error)

	AddPortfolioImage(db *gorm.DB, caller auth.Caller, url string) (*models.User, error)
	RemovePortfolioImage(db *gorm.DB, caller auth.Caller, url string) (*models.User, error)
	AddDocument(db *gorm.DB, caller auth.Caller, req *dto.AddDocumentRequest) (*models.User, error)
	RemoveDocument(db *gorm.DB, caller auth.Caller, url string) (*models.User, error)

	GetPublicProfile(db *gorm.DB, userID string) (*dto.PublicProfile, error)
}

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	jobRepo     repositories.JobRepository
	authService AuthService
	// storage может быть nil, тогда файлы не удаляются
	storage storage.Storage
}

func NewUserService(userRepo repositories.UserRepository, jobRepo repositories.JobRepository, authService AuthService, store storage.Storage) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		authService: authService,
		storage:     store,
	}
}

func (s *UserServiceImpl) GetMe(db *gorm.DB, caller auth.Caller) (*models.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(db, caller.UserID)
	return user, handleRepoError(err, apperrors.ErrUserNotFound)
}

func (s *UserServiceImpl) UpdateMe(db *gorm.DB, caller auth.Caller, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	fields := repositories.Fields{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.Skills != nil {
		fields["skills"] = datatypes.JSONSlice[string](req.Skills)
	}

	user, err := s.userRepo.Update(db, caller.UserID, fields)
	return user, handleRepoError(err, apperrors.ErrUserNotFound)
}

func (s *UserServiceImpl) SetUserType(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.SetUserTypeRequest) (*dto.AuthResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByIDForUpdate(tx, caller.UserID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}
	if user.UserType != models.UserTypeUnset {
		return nil, apperrors.ErrUserTypeAlreadySet
	}

	user, err = s.userRepo.Update(tx, user.ID, repositories.Fields{"user_type": req.UserType})
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user type chosen", "user_id", user.ID, "user_type", user.UserType)
	return s.authService.IssueToken(user)
}

func (s *UserServiceImpl) AddPortfolioImage(db *gorm.DB, caller auth.Caller, url string) (*models.User, error) {
	return s.updateWorkerProfile(db, caller, func(u *models.User) repositories.Fields {
		if slices.Contains(u.PortfolioImages, url) {
			return nil
		}
		return repositories.Fields{"portfolio_images": append(datatypes.JSONSlice[string](u.PortfolioImages), url)}
	})
}

func (s *UserServiceImpl) RemovePortfolioImage(db *gorm.DB, caller auth.Caller, url string) (*models.User, error) {
	removed := false
	user, err := s.updateWorkerProfile(db, caller, func(u *models.User) repositories.Fields {
		kept := slices.DeleteFunc(slices.Clone(u.PortfolioImages), func(img string) bool { return img == url })
		removed = len(kept) < len(u.PortfolioImages)
		return repositories.Fields{"portfolio_images": datatypes.JSONSlice[string](nonNil(kept))}
	})
	if err == nil && removed {
		s.deleteStoredFile(db, caller, user, url)
	}
	return user, err
}

func (s *UserServiceImpl) AddDocument(db *gorm.DB, caller auth.Caller, req *dto.AddDocumentRequest) (*models.User, error) {
	return s.updateWorkerProfile(db, caller, func(u *models.User) repositories.Fields {
		docs := slices.DeleteFunc(slices.Clone(u.Documents), func(d models.Document) bool { return d.URL == req.URL })
		docs = append(docs, models.Document{Name: req.Name, URL: req.URL, Type: req.Type})
		return repositories.Fields{"documents": datatypes.JSONSlice[models.Document](docs)}
	})
}

func (s *UserServiceImpl) RemoveDocument(db *gorm.DB, caller auth.Caller, url string) (*models.User, error) {
	removed := false
	user, err := s.updateWorkerProfile(db, caller, func(u *models.User) repositories.Fields {
		docs := slices.DeleteFunc(slices.Clone(u.Documents), func(d models.Document) bool { return d.URL == url })
		removed = len(docs) < len(u.Documents)
		return repositories.Fields{"documents": datatypes.JSONSlice[models.Document](nonNil(docs))}
	})
	if err == nil && removed {
		s.deleteStoredFile(db, caller, user, url)
	}
	return user, err
}

// deleteStoredFile удаляет файл после коммита, если URL выдан нашим хранилищем,
// ключ лежит под caller.UserID и профиль больше на него не ссылается.
// Ошибка хранилища только логируется: запись профиля уже обновлена.
func (s *UserServiceImpl) deleteStoredFile(db *gorm.DB, caller auth.Caller, user *models.User, url string) {
	if s.storage == nil {
		return
	}
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	// <usage>/<user_id>/<file>
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[1] != caller.UserID {
		return
	}
	if stillReferenced(user, url) {
		return
	}

	ctx := context.Background()
	if db.Statement != nil && db.Statement.Context != nil {
		ctx = db.Statement.Context
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "failed to delete stored file", err, "user_id", caller.UserID, "key", key)
		return
	}
	logger.CtxInfo(ctx, "stored file deleted", "user_id", caller.UserID, "key", key)
}

func stillReferenced(user *models.User, url string) bool {
	if user.AvatarURL == url || slices.Contains(user.PortfolioImages, url) {
		return true
	}
	return slices.ContainsFunc(user.Documents, func(d models.Document) bool { return d.URL == url })
}

// updateWorkerProfile - чтение-изменение-запись списков профиля в одной транзакции.
// Портфолио и документы есть только у работников.
func (s *UserServiceImpl) updateWorkerProfile(db *gorm.DB, caller auth.Caller, change func(u *models.User) repositories.Fields) (*models.User, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if !caller.IsWorker() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByIDForUpdate(tx, caller.UserID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	if fields := change(user); len(fields) > 0 {
		user, err = s.userRepo.Update(tx, user.ID, fields)
		if err != nil {
			return nil, handleRepoError(err, apperrors.ErrUserNotFound)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetPublicProfile(db *gorm.DB, userID string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	completed, err := s.countCompleted(db, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PublicProfile{
		UserSummary:     *dto.NewUserSummary(user),
		Bio:             user.Bio,
		Skills:          nonNil(user.Skills),
		PortfolioImages: nonNil(user.PortfolioImages),
		Documents:       nonNil(user.Documents),
		CompletedJobs:   completed,
	}, nil
}

func (s *UserServiceImpl) countCompleted(db *gorm.DB, user *models.User) (int64, error) {
	field := "worker_id"
	if user.UserType == models.UserTypeEmployer {
		field = "employer_id"
	}
	_, total, err := s.jobRepo.List(db, repositories.Filter{
		field:    user.ID,
		"status": models.JobStatusCompleted,
	}, "", 1, 0)
	return total, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
