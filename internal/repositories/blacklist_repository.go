package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type BlacklistRepository interface {
	List(db *gorm.DB) ([]models.Blacklist, error)
	Create(db *gorm.DB, entry *models.Blacklist) error
	FindByID(db *gorm.DB, id string) (*models.Blacklist, error)
	Delete(db *gorm.DB, id string) error
	IsBlacklisted(db *gorm.DB, userID string) (bool, error)
}

type BlacklistRepositoryImpl struct {
	store EntityStore[models.Blacklist]
}

func NewBlacklistRepository() BlacklistRepository {
	return &BlacklistRepositoryImpl{
		store: NewEntityStore[models.Blacklist](map[string]string{
			"user_id":  "user_id",
			"added_by": "added_by",
		}, "-created_date"),
	}
}

func (r *BlacklistRepositoryImpl) List(db *gorm.DB) ([]models.Blacklist, error) {
	return r.store.List(db, "")
}

func (r *BlacklistRepositoryImpl) Create(db *gorm.DB, entry *models.Blacklist) error {
	return r.store.Create(db, entry)
}

func (r *BlacklistRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Blacklist, error) {
	return r.store.Get(db, id)
}

func (r *BlacklistRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return r.store.Delete(db, id)
}

func (r *BlacklistRepositoryImpl) IsBlacklisted(db *gorm.DB, userID string) (bool, error) {
	n, err := r.store.Count(db, Filter{"user_id": userID})
	return n > 0, err
}
