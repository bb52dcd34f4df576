package services

import (
	"context"
	"errors"
	"fmt"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/conversation"
	"kandu_backend/internal/lifecycle"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	// Apply - отклик или встречное предложение работника на открытый заказ
	Apply(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.ApplyRequest) (*models.Application, error)
	Accept(ctx context.Context, db *gorm.DB, caller auth.Caller, applicationID string) (*models.Application, error)
	Reject(ctx context.Context, db *gorm.DB, caller auth.Caller, applicationID string) (*models.Application, error)

	ListForJob(db *gorm.DB, caller auth.Caller, jobID string) ([]dto.ApplicationResponse, error)
	ListMine(db *gorm.DB, caller auth.Caller, status models.ApplicationStatus) ([]dto.ApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	chatRepo        repositories.ChatRepository
	notifications   NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	chatRepo repositories.ChatRepository,
	notifications NotificationService,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		chatRepo:        chatRepo,
		notifications:   notifications,
	}
}

func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.ApplyRequest) (*models.Application, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if !caller.IsWorker() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if req.ApplicationType == models.ApplicationTypeProposal && (req.ProposedPrice == nil || *req.ProposedPrice <= 0) {
		return nil, apperrors.ValidationError(map[string]string{"proposed_price": "proposed_price is required for a proposal"})
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindByID(tx, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if job.IsOwnedBy(caller.UserID) {
		return nil, apperrors.ErrCannotApplyToOwnJob
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	app := &models.Application{
		JobID:    job.ID,
		WorkerID: caller.UserID,
		Message:  req.Message,
		Status:   models.ApplicationStatusPending,
	}
	app.SetTerms(req.Terms())

	if err := s.applicationRepo.CreateIfAbsent(tx, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateApplication.WithDetails(map[string]string{"job_id": job.ID})
		}
		return nil, apperrors.InternalError(err)
	}

	var n *models.Notification
	if _, ok := app.Terms().(models.ProposalTerms); ok {
		n = NewJobNotification(job.EmployerID, models.NotificationNewProposal, job.ID,
			"New proposal", fmt.Sprintf("A worker proposed %.2f for \"%s\"", *app.ProposedPrice, job.Title))
	} else {
		n = NewJobNotification(job.EmployerID, models.NotificationNewApplication, job.ID,
			"New application", fmt.Sprintf("A worker applied to \"%s\"", job.Title))
	}
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	// текст отклика открывает переписку с заказчиком
	opening := &models.ChatMessage{
		ConversationID: conversation.ID(caller.UserID, job.EmployerID),
		SenderID:       caller.UserID,
		ReceiverID:     job.EmployerID,
		Message:        req.Message,
	}
	if err := s.chatRepo.Create(tx, opening); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application created",
		"application_id", app.ID, "job_id", job.ID, "worker_id", caller.UserID, "type", app.ApplicationType)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return app, nil
}

// Accept - заказчик принимает отклик: работник назначается на заказ,
// цена договора берётся из предложения, если оно было.
func (s *ApplicationServiceImpl) Accept(ctx context.Context, db *gorm.DB, caller auth.Caller, applicationID string) (*models.Application, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, job, err := s.loadPendingForOwner(tx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Advance(lifecycle.ActionAccept, job.Status)
	if err != nil {
		return nil, apperrors.ErrInvalidJobStatus.WithError(err)
	}

	app, err = s.applicationRepo.UpdateStatus(tx, app.ID, models.ApplicationStatusAccepted)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrApplicationNotFound)
	}

	price := app.Terms().ContractPrice(job.Price)
	job, err = s.jobRepo.Update(tx, job.ID, repositories.Fields{
		"status":    next,
		"worker_id": app.WorkerID,
		"price":     price,
	})
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}

	n := NewJobNotification(app.WorkerID, models.NotificationJobAccepted, job.ID,
		"Application accepted", fmt.Sprintf("You have been hired for \"%s\"", job.Title))
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application accepted",
		"application_id", app.ID, "job_id", job.ID, "worker_id", app.WorkerID, "price", price)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return app, nil
}

// Reject - отклонение отклика. Заказ не меняется.
func (s *ApplicationServiceImpl) Reject(ctx context.Context, db *gorm.DB, caller auth.Caller, applicationID string) (*models.Application, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, job, err := s.loadPendingForOwner(tx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	app, err = s.applicationRepo.UpdateStatus(tx, app.ID, models.ApplicationStatusRejected)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrApplicationNotFound)
	}

	n := NewJobNotification(app.WorkerID, models.NotificationJobRejected, job.ID,
		"Application declined", fmt.Sprintf("Your application for \"%s\" was declined", job.Title))
	if err := s.notifications.Notify(tx, n); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application rejected", "application_id", app.ID, "job_id", job.ID)
	s.notifications.Deliver(ctx, db, []*models.Notification{n})
	return app, nil
}

// loadPendingForOwner блокирует отклик и заказ и проверяет,
// что вызывающий - автор заказа, а отклик ещё не рассмотрен.
func (s *ApplicationServiceImpl) loadPendingForOwner(tx *gorm.DB, caller auth.Caller, applicationID string) (*models.Application, *models.Job, error) {
	app, err := s.applicationRepo.FindByIDForUpdate(tx, applicationID)
	if err != nil {
		return nil, nil, handleRepoError(err, apperrors.ErrApplicationNotFound)
	}
	job, err := s.jobRepo.FindByIDForUpdate(tx, app.JobID)
	if err != nil {
		return nil, nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if !job.IsOwnedBy(caller.UserID) {
		return nil, nil, apperrors.ErrNotJobOwner
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, nil, apperrors.ErrInvalidApplicationStatus
	}
	return app, job, nil
}

func (s *ApplicationServiceImpl) ListForJob(db *gorm.DB, caller auth.Caller, jobID string) ([]dto.ApplicationResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if !job.IsOwnedBy(caller.UserID) && !caller.IsAdmin() {
		return nil, apperrors.ErrNotJobOwner
	}

	apps, err := s.applicationRepo.ListByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	workerIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		workerIDs = append(workerIDs, a.WorkerID)
	}
	workers, err := s.userRepo.FindByIDs(db, workerIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.User, len(workers))
	for i := range workers {
		byID[workers[i].ID] = &workers[i]
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.ApplicationResponse{Application: a, Worker: dto.NewUserSummary(byID[a.WorkerID])})
	}
	return out, nil
}

func (s *ApplicationServiceImpl) ListMine(db *gorm.DB, caller auth.Caller, status models.ApplicationStatus) ([]dto.ApplicationResponse, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.ListByWorker(db, caller.UserID, status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	jobIDs := make(repositories.In, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
	}
	jobs, _, err := s.jobRepo.List(db, repositories.Filter{"id": jobIDs}, "", 0, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.ApplicationResponse{Application: a, Job: byID[a.JobID]})
	}
	return out, nil
}
