package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	// FindByIDForUpdate блокирует строку заказа до конца транзакции перехода
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, id string, fields Fields) (*models.Job, error)
	List(db *gorm.DB, filter Filter, sort SortSpec, limit, offset int) ([]models.Job, int64, error)
	// FindByParticipant - заказы, где пользователь заказчик или исполнитель
	FindByParticipant(db *gorm.DB, userID string) ([]models.Job, error)
	IncrementViews(db *gorm.DB, id string, delta int64) error
	CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error)
}

type JobRepositoryImpl struct {
	store EntityStore[models.Job]
}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{
		store: NewEntityStore[models.Job](map[string]string{
			"employer_id":       "employer_id",
			"worker_id":         "worker_id",
			"title":             "title",
			"category":          "category",
			"description":       "description",
			"location":          "location",
			"price":             "price",
			"price_type":        "price_type",
			"status":            "status",
			"urgency":           "urgency",
			"start_date":        "start_date",
			"end_date":          "end_date",
			"actual_start_date": "actual_start_date",
			"actual_end_date":   "actual_end_date",
			"views":             "views",
		}, "-created_date"),
	}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return r.store.Create(db, job)
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	return r.store.Get(db, id)
}

func (r *JobRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	return r.store.GetForUpdate(db, id)
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, id string, fields Fields) (*models.Job, error) {
	return r.store.Update(db, id, fields)
}

func (r *JobRepositoryImpl) List(db *gorm.DB, filter Filter, sort SortSpec, limit, offset int) ([]models.Job, int64, error) {
	return r.store.FilterPage(db, filter, sort, limit, offset)
}

func (r *JobRepositoryImpl) FindByParticipant(db *gorm.DB, userID string) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	err := db.Where("employer_id = ? OR worker_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// IncrementViews - атомарное приращение счётчика просмотров
func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, id string, delta int64) error {
	return db.Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}

func (r *JobRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := db.Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
