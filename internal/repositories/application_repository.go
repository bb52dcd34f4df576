package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// CreateIfAbsent - атомарная вставка по уникальному (job_id, worker_id).
	// Если отклик уже есть, возвращает ErrDuplicate и ничего не пишет.
	CreateIfAbsent(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Application, error)
	FindByJobAndWorker(db *gorm.DB, jobID, workerID string) (*models.Application, error)
	ListByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	ListByWorker(db *gorm.DB, workerID string, status models.ApplicationStatus) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) (*models.Application, error)
	Count(db *gorm.DB, filter Filter) (int64, error)
}

type ApplicationRepositoryImpl struct {
	store EntityStore[models.Application]
}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{
		store: NewEntityStore[models.Application](map[string]string{
			"job_id":           "job_id",
			"worker_id":        "worker_id",
			"message":          "message",
			"application_type": "application_type",
			"proposed_price":   "proposed_price",
			"status":           "status",
		}, "-created_date"),
	}
}

func (r *ApplicationRepositoryImpl) CreateIfAbsent(db *gorm.DB, app *models.Application) error {
	created, err := r.store.CreateIfAbsent(db, app, "job_id", "worker_id")
	if err != nil {
		return err
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	return r.store.Get(db, id)
}

func (r *ApplicationRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Application, error) {
	return r.store.GetForUpdate(db, id)
}

func (r *ApplicationRepositoryImpl) FindByJobAndWorker(db *gorm.DB, jobID, workerID string) (*models.Application, error) {
	apps, err := r.store.Filter(db, Filter{"job_id": jobID, "worker_id": workerID}, "")
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrNotFound
	}
	return &apps[0], nil
}

func (r *ApplicationRepositoryImpl) ListByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	return r.store.Filter(db, Filter{"job_id": jobID}, "-created_date")
}

func (r *ApplicationRepositoryImpl) ListByWorker(db *gorm.DB, workerID string, status models.ApplicationStatus) ([]models.Application, error) {
	filter := Filter{"worker_id": workerID}
	if status != "" {
		filter["status"] = status
	}
	return r.store.Filter(db, filter, "-created_date")
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) (*models.Application, error) {
	return r.store.Update(db, id, Fields{"status": status})
}

func (r *ApplicationRepositoryImpl) Count(db *gorm.DB, filter Filter) (int64, error) {
	return r.store.Count(db, filter)
}
