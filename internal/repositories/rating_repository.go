package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	// CreateIfAbsent - атомарная вставка по (job_id, rater_id, rated_id), ErrDuplicate при повторе
	CreateIfAbsent(db *gorm.DB, rating *models.Rating) error
	// ValuesForRated - все оценки, полученные пользователем, в порядке создания
	ValuesForRated(db *gorm.DB, ratedID string) ([]int, error)
	ListByRated(db *gorm.DB, ratedID string) ([]models.Rating, error)
	ListByJob(db *gorm.DB, jobID string) ([]models.Rating, error)
}

type RatingRepositoryImpl struct {
	store EntityStore[models.Rating]
}

func NewRatingRepository() RatingRepository {
	return &RatingRepositoryImpl{
		store: NewEntityStore[models.Rating](map[string]string{
			"job_id":   "job_id",
			"rater_id": "rater_id",
			"rated_id": "rated_id",
			"rating":   "rating",
		}, "-created_date"),
	}
}

func (r *RatingRepositoryImpl) CreateIfAbsent(db *gorm.DB, rating *models.Rating) error {
	created, err := r.store.CreateIfAbsent(db, rating, "job_id", "rater_id", "rated_id")
	if err != nil {
		return err
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

func (r *RatingRepositoryImpl) ValuesForRated(db *gorm.DB, ratedID string) ([]int, error) {
	values := make([]int, 0)
	err := db.Model(&models.Rating{}).
		Where("rated_id = ?", ratedID).
		Order("created_at ASC, id ASC").
		Pluck("rating", &values).Error
	return values, err
}

func (r *RatingRepositoryImpl) ListByRated(db *gorm.DB, ratedID string) ([]models.Rating, error) {
	return r.store.Filter(db, Filter{"rated_id": ratedID}, "-created_date")
}

func (r *RatingRepositoryImpl) ListByJob(db *gorm.DB, jobID string) ([]models.Rating, error) {
	return r.store.Filter(db, Filter{"job_id": jobID}, "created_date")
}
