package repositories

import (
	"errors"
	"strings"

	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.User, error)
	Update(db *gorm.DB, id string, fields Fields) (*models.User, error)

	// UpdateReputation записывает итог начисления репутации
	UpdateReputation(db *gorm.DB, id string, xp int, rating float64) error

	// Admin operations
	List(db *gorm.DB, filter Filter, sort SortSpec, limit, offset int) ([]models.User, int64, error)
	CountByType(db *gorm.DB) (map[models.UserType]int64, error)
}

type UserRepositoryImpl struct {
	store EntityStore[models.User]
}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{
		store: NewEntityStore[models.User](map[string]string{
			"email":            "email",
			"user_type":        "user_type",
			"status":           "status",
			"full_name":        "full_name",
			"phone":            "phone",
			"bio":              "bio",
			"avatar_url":       "avatar_url",
			"rating":           "rating",
			"xp":               "xp",
			"skills":           "skills",
			"portfolio_images": "portfolio_images",
			"documents":        "documents",
		}, "-created_date"),
	}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	created, err := r.store.CreateIfAbsent(db, user, "email")
	if err != nil {
		return err
	}
	if !created {
		return ErrDuplicate
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.store.Get(db, id)
}

func (r *UserRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.User, error) {
	return r.store.GetForUpdate(db, id)
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	in := make(In, 0, len(ids))
	for _, id := range ids {
		in = append(in, id)
	}
	return r.store.Filter(db, Filter{"id": in}, "id")
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, id string, fields Fields) (*models.User, error) {
	return r.store.Update(db, id, fields)
}

func (r *UserRepositoryImpl) UpdateReputation(db *gorm.DB, id string, xp int, rating float64) error {
	_, err := r.store.Update(db, id, Fields{"xp": xp, "rating": rating})
	return err
}

func (r *UserRepositoryImpl) List(db *gorm.DB, filter Filter, sort SortSpec, limit, offset int) ([]models.User, int64, error) {
	return r.store.FilterPage(db, filter, sort, limit, offset)
}

func (r *UserRepositoryImpl) CountByType(db *gorm.DB) (map[models.UserType]int64, error) {
	var rows []struct {
		UserType models.UserType
		Count    int64
	}
	err := db.Model(&models.User{}).
		Select("user_type, COUNT(*) AS count").
		Group("user_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.UserType]int64, len(rows))
	for _, row := range rows {
		counts[row.UserType] = row.Count
	}
	return counts, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
