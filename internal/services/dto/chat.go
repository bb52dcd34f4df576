package dto

import (
	"time"

	"kandu_backend/internal/models"
)

// SendMessageRequest - сообщение в переписку с receiver_id.
// Нужен текст или вложение.
type SendMessageRequest struct {
	ReceiverID     string                `json:"receiver_id" validate:"required,max=36"`
	Message        string                `json:"message" validate:"omitempty,max=5000"`
	AttachmentURL  string                `json:"attachment_url" validate:"omitempty,max=500"`
	AttachmentType models.AttachmentType `json:"attachment_type" validate:"omitempty,is-attachment-type"`
}

type ConversationResponse struct {
	ConversationID string              `json:"conversation_id"`
	Participants   [2]string           `json:"participants"`
	OtherUser      *UserSummary        `json:"other_user,omitempty"`
	LastMessage    *models.ChatMessage `json:"last_message"`
	LastMessageAt  time.Time           `json:"last_message_at"`
	UnreadCount    int                 `json:"unread_count"`
	MessageCount   int                 `json:"message_count"`
}

// ConversationDetail - переписка целиком, сообщения по возрастанию времени
type ConversationDetail struct {
	ConversationResponse
	Messages []models.ChatMessage `json:"messages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
