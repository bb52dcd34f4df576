package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/lifecycle"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/reputation"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// LifecycleService - переходы заказа после назначения работника:
// начало работ и двухстороннее завершение с оценками.
type LifecycleService interface {
	// Start идемпотентен: повторный вызов на начатом заказе возвращает его без изменений
	Start(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string) (*models.Job, error)
	// EmployerComplete - заказчик принимает работу и оценивает работника
	EmployerComplete(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.CompleteJobRequest) (*dto.CompletionResponse, error)
	// WorkerComplete - работник подтверждает завершение и оценивает заказчика
	WorkerComplete(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.CompleteJobRequest) (*dto.CompletionResponse, error)
}

type LifecycleServiceImpl struct {
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	ratingRepo    repositories.RatingRepository
	notifications NotificationService
	now           func() time.Time
}

func NewLifecycleService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	ratingRepo repositories.RatingRepository,
	notifications NotificationService,
) LifecycleService {
	return &LifecycleServiceImpl{
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		ratingRepo:    ratingRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *LifecycleServiceImpl) Start(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string) (*models.Job, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if !job.IsOwnedBy(caller.UserID) {
		return nil, apperrors.ErrNotJobOwner
	}
	if !job.HasWorker() {
		return nil, apperrors.ErrJobHasNoWorker
	}

	next, err := lifecycle.Advance(lifecycle.ActionStart, job.Status)
	if err != nil {
		return nil, apperrors.ErrInvalidJobStatus.WithError(err)
	}
	if job.Status == next && job.ActualStartDate != nil {
		// уже начат: второй путь (QR) или повторное нажатие
		return job, nil
	}

	fields := repositories.Fields{"status": next}
	if job.ActualStartDate == nil {
		fields["actual_start_date"] = s.now()
	}
	job, err = s.jobRepo.Update(tx, job.ID, fields)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}

	n := NewJobNotification(*job.WorkerID, models.NotificationJobStarted, job.ID,
		"Job started", fmt.Sprintf("Work on \"%s\" has started", job.Title))
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job started", "job_id", job.ID, "worker_id", *job.WorkerID)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return job, nil
}

func (s *LifecycleServiceImpl) EmployerComplete(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.CompleteJobRequest) (*dto.CompletionResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if !job.IsOwnedBy(caller.UserID) {
		return nil, apperrors.ErrNotJobOwner
	}
	next, err := lifecycle.Advance(lifecycle.ActionEmployerComplete, job.Status)
	if err != nil {
		return nil, apperrors.ErrInvalidJobStatus.WithError(err)
	}
	if !job.HasWorker() {
		return nil, apperrors.ErrJobHasNoWorker
	}

	now := s.now()
	settlement, err := s.settle(tx, job, caller.UserID, *job.WorkerID, req, now)
	if err != nil {
		return nil, err
	}

	job, err = s.jobRepo.Update(tx, job.ID, repositories.Fields{"status": next})
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}

	n := NewJobNotification(*job.WorkerID, models.NotificationJobReadyForReview, job.ID,
		"Job marked complete", fmt.Sprintf("The employer marked \"%s\" complete. Confirm and leave a rating.", job.Title))
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job completed by employer",
		"job_id", job.ID, "worker_id", *job.WorkerID, "xp_gained", settlement.XPGained)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return completion(job, *job.WorkerID, settlement), nil
}

func (s *LifecycleServiceImpl) WorkerComplete(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.CompleteJobRequest) (*dto.CompletionResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	// без назначенного исполнителя любой работник получает ошибку статуса
	if job.HasWorker() && !job.IsAssignedTo(caller.UserID) {
		return nil, apperrors.ErrNotAssignedWorker
	}
	if !job.HasWorker() && !caller.IsWorker() {
		return nil, apperrors.ErrNotAssignedWorker
	}
	next, err := lifecycle.Advance(lifecycle.ActionWorkerComplete, job.Status)
	if err != nil {
		return nil, apperrors.ErrInvalidJobStatus.WithError(err)
	}
	if !job.IsAssignedTo(caller.UserID) {
		return nil, apperrors.ErrNotAssignedWorker
	}

	now := s.now()
	settlement, err := s.settle(tx, job, caller.UserID, job.EmployerID, req, now)
	if err != nil {
		return nil, err
	}

	job, err = s.jobRepo.Update(tx, job.ID, repositories.Fields{
		"status":          next,
		"actual_end_date": now,
	})
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}

	n := NewJobNotification(job.EmployerID, models.NotificationJobCompleted, job.ID,
		"Job completed", fmt.Sprintf("\"%s\" is complete", job.Title))
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job completed", "job_id", job.ID, "employer_id", job.EmployerID, "xp_gained", settlement.XPGained)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return completion(job, job.EmployerID, settlement), nil
}

// settle сохраняет оценку и пересчитывает xp и rating оцениваемого
// в транзакции перехода.
func (s *LifecycleServiceImpl) settle(tx *gorm.DB, job *models.Job, raterID, ratedID string, req *dto.CompleteJobRequest, completedAt time.Time) (reputation.Settlement, error) {
	existing, err := s.ratingRepo.ValuesForRated(tx, ratedID)
	if err != nil {
		return reputation.Settlement{}, apperrors.InternalError(err)
	}

	rating := &models.Rating{
		JobID:     job.ID,
		RaterID:   raterID,
		RatedID:   ratedID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Qualities: req.Qualities,
	}
	if rating.Qualities == nil {
		rating.Qualities = []string{}
	}
	if err := s.ratingRepo.CreateIfAbsent(tx, rating); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return reputation.Settlement{}, apperrors.ErrDuplicateRating
		}
		return reputation.Settlement{}, apperrors.InternalError(err)
	}

	rated, err := s.userRepo.FindByIDForUpdate(tx, ratedID)
	if err != nil {
		return reputation.Settlement{}, handleRepoError(err, apperrors.ErrUserNotFound)
	}

	settlement := reputation.Settle(rated.XP, existing, req.Rating, job.Price, job.EndDate, completedAt)
	if err := s.userRepo.UpdateReputation(tx, ratedID, settlement.NewXP, settlement.NewRating); err != nil {
		return reputation.Settlement{}, handleRepoError(err, apperrors.ErrUserNotFound)
	}
	return settlement, nil
}

func completion(job *models.Job, ratedID string, st reputation.Settlement) *dto.CompletionResponse {
	return &dto.CompletionResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		RatedID:   ratedID,
		XPGained:  st.XPGained,
		NewXP:     st.NewXP,
		NewRating: st.NewRating,
	}
}
