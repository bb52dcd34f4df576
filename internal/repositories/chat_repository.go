package repositories

import (
	"kandu_backend/internal/models"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(db *gorm.DB, msg *models.ChatMessage) error
	FindByID(db *gorm.DB, id string) (*models.ChatMessage, error)

	// ListVisible - сообщения, где пользователь отправитель или получатель.
	// Для администратора возвращаются все сообщения.
	ListVisible(db *gorm.DB, userID string, isAdmin bool) ([]models.ChatMessage, error)
	ListConversation(db *gorm.DB, conversationID string) ([]models.ChatMessage, error)

	// MarkConversationRead помечает прочитанными входящие для receiverID
	MarkConversationRead(db *gorm.DB, conversationID, receiverID string) (int64, error)
	CountUnread(db *gorm.DB, receiverID string) (int64, error)
	Count(db *gorm.DB) (int64, error)
}

type ChatRepositoryImpl struct {
	store EntityStore[models.ChatMessage]
}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{
		store: NewEntityStore[models.ChatMessage](map[string]string{
			"conversation_id": "conversation_id",
			"sender_id":       "sender_id",
			"receiver_id":     "receiver_id",
			"is_read":         "is_read",
		}, "created_date"),
	}
}

func (r *ChatRepositoryImpl) Create(db *gorm.DB, msg *models.ChatMessage) error {
	return r.store.Create(db, msg)
}

func (r *ChatRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ChatMessage, error) {
	return r.store.Get(db, id)
}

func (r *ChatRepositoryImpl) ListVisible(db *gorm.DB, userID string, isAdmin bool) ([]models.ChatMessage, error) {
	if isAdmin {
		return r.store.List(db, "created_date")
	}
	messages := make([]models.ChatMessage, 0)
	err := db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) ListConversation(db *gorm.DB, conversationID string) ([]models.ChatMessage, error) {
	return r.store.Filter(db, Filter{"conversation_id": conversationID}, "created_date")
}

func (r *ChatRepositoryImpl) MarkConversationRead(db *gorm.DB, conversationID, receiverID string) (int64, error) {
	res := db.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *ChatRepositoryImpl) CountUnread(db *gorm.DB, receiverID string) (int64, error) {
	return r.store.Count(db, Filter{"receiver_id": receiverID, "is_read": false})
}

func (r *ChatRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	return r.store.Count(db, nil)
}
