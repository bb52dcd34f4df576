package admin

import (
	"context"
	"fmt"

	"kandu_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormWipeRepository - тот же wipe через GORM. Используется, когда пул pgx
// не поднят (SQLite в тестах, локальный запуск без PostgreSQL).
type GormWipeRepository struct {
	db *gorm.DB
}

func NewGormWipeRepository(db *gorm.DB) WipeRepository {
	return &GormWipeRepository{db: db}
}

func (r *GormWipeRepository) Wipe(ctx context.Context) (WipeResult, error) {
	var res WipeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model any
			dst   *int64
		}{
			{&models.Rating{}, &res.Ratings},
			{&models.Application{}, &res.Applications},
			{&models.ChatMessage{}, &res.ChatMessages},
			{&models.Notification{}, &res.Notifications},
			{&models.Job{}, &res.Jobs},
		}
		for _, step := range steps {
			q := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(step.model)
			if q.Error != nil {
				return fmt.Errorf("wipe %T: %w", step.model, q.Error)
			}
			*step.dst = q.RowsAffected
		}

		q := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Model(&models.User{}).Updates(map[string]any{
			"rating":           0,
			"xp":               0,
			"portfolio_images": datatypes.JSONSlice[string]{},
			"documents":        datatypes.JSONSlice[models.Document]{},
		})
		if q.Error != nil {
			return fmt.Errorf("wipe users: %w", q.Error)
		}
		res.UsersReset = q.RowsAffected
		return nil
	})
	if err != nil {
		return WipeResult{}, err
	}
	return res, nil
}
