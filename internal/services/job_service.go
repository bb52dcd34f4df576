package services

import (
	"context"
	"time"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/calendar"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/services/dto"
	"kandu_backend/internal/views"
	"kandu_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	Create(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string) (*dto.JobResponse, error)
	Update(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.UpdateJobRequest) (*models.Job, error)
	List(db *gorm.DB, query *dto.JobListQuery, page, limit int) (*dto.JobListResponse, error)
	// Calendar - заказы пользователя (как заказчика или исполнителя) по дням начала
	Calendar(db *gorm.DB, caller auth.Caller, from, to time.Time, loc *time.Location) ([]calendar.Day, error)
}

type JobServiceImpl struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
	views    views.Counter
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository, counter views.Counter) JobService {
	if counter == nil {
		counter = views.NewMemoryCounter()
	}
	return &JobServiceImpl{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		views:    counter,
	}
}

func (s *JobServiceImpl) Create(ctx context.Context, db *gorm.DB, caller auth.Caller, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if !caller.IsEmployer() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if req.Price == nil {
		return nil, apperrors.ValidationError(map[string]string{"price": "price is required"})
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	job := &models.Job{
		EmployerID:  caller.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Price:       *req.Price,
		PriceType:   req.PriceType,
		Status:      models.JobStatusOpen,
		Urgency:     urgency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "employer_id", job.EmployerID)
	return job, nil
}

func (s *JobServiceImpl) Get(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}

	// просмотры автора не считаются
	if !job.IsOwnedBy(caller.UserID) {
		if err := s.views.Increment(ctx, job.ID); err != nil {
			logger.CtxWithError(ctx, "failed to count job view", err, "job_id", job.ID)
		}
	}

	ids := []string{job.EmployerID}
	if job.HasWorker() {
		ids = append(ids, *job.WorkerID)
	}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobResponse{Job: *job}
	for i := range users {
		u := &users[i]
		if u.ID == job.EmployerID {
			resp.Employer = dto.NewUserSummary(u)
		}
		if job.IsAssignedTo(u.ID) {
			resp.Worker = dto.NewUserSummary(u)
		}
	}
	return resp, nil
}

// Update - правка объявления. Только автор и только пока заказ открыт.
func (s *JobServiceImpl) Update(ctx context.Context, db *gorm.DB, caller auth.Caller, jobID string, req *dto.UpdateJobRequest) (*models.Job, error) {
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
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	start, end := job.StartDate, job.EndDate
	fields := repositories.Fields{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.PriceType != nil {
		fields["price_type"] = *req.PriceType
	}
	if req.Urgency != nil {
		fields["urgency"] = *req.Urgency
	}
	if req.StartDate != nil {
		fields["start_date"] = req.StartDate
		start = req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = req.EndDate
		end = req.EndDate
	}
	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	job, err = s.jobRepo.Update(tx, job.ID, fields)
	if err != nil {
		return nil, handleRepoError(err, apperrors.ErrJobNotFound)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job updated", "job_id", job.ID)
	return job, nil
}

func (s *JobServiceImpl) List(db *gorm.DB, query *dto.JobListQuery, page, limit int) (*dto.JobListResponse, error) {
	page, limit = normalizePage(page, limit)

	filter := repositories.Filter{}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Urgency != "" {
		filter["urgency"] = query.Urgency
	}
	if query.EmployerID != "" {
		filter["employer_id"] = query.EmployerID
	}
	if query.WorkerID != "" {
		filter["worker_id"] = query.WorkerID
	}

	jobs, total, err := s.jobRepo.List(db, filter, repositories.SortSpec(query.Sort), limit, (page-1)*limit)
	if err != nil {
		return nil, handleRepoError(err, nil)
	}

	return &dto.JobListResponse{Jobs: jobs, Total: total, Page: page, Limit: limit}, nil
}

func (s *JobServiceImpl) Calendar(db *gorm.DB, caller auth.Caller, from, to time.Time, loc *time.Location) ([]calendar.Day, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.NewBadRequestError("'to' must not be before 'from'")
	}

	jobs, err := s.jobRepo.FindByParticipant(db, caller.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return calendar.BucketByDay(jobs, from, to, loc), nil
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.ValidationError(map[string]string{"end_date": "end_date must not be before start_date"})
	}
	return nil
}
