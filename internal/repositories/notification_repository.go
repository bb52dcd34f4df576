package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateBulk(db *gorm.DB, notifications []*models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	ListByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
	// MarkRead помечает уведомление прочитанным, только если оно принадлежит userID
	MarkRead(db *gorm.DB, id, userID string) error
	MarkAllRead(db *gorm.DB, userID string) (int64, error)
}

type NotificationRepositoryImpl struct {
	store EntityStore[models.Notification]
}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{
		store: NewEntityStore[models.Notification](map[string]string{
			"user_id":    "user_id",
			"type":       "type",
			"related_id": "related_id",
			"is_read":    "is_read",
		}, "-created_date"),
	}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return r.store.Create(db, notification)
}

func (r *NotificationRepositoryImpl) CreateBulk(db *gorm.DB, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.Create(&notifications).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	return r.store.Get(db, id)
}

func (r *NotificationRepositoryImpl) ListByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	filter := Filter{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	return r.store.FilterPage(db, filter, "", limit, offset)
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, userID string) (int64, error) {
	return r.store.Count(db, Filter{"user_id": userID, "is_read": false})
}

func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id, userID string) error {
	res := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, userID string) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
