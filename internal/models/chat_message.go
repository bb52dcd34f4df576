package models

type ChatMessage struct {
	BaseModel
	ConversationID string         `gorm:"size:80;not null;index" json:"conversation_id"`
	SenderID       string         `gorm:"size:36;not null;index" json:"sender_id"`
	ReceiverID     string         `gorm:"size:36;not null;index" json:"receiver_id"`
	Message        string         `json:"message"`
	AttachmentURL  string         `json:"attachment_url,omitempty"`
	AttachmentType AttachmentType `gorm:"type:varchar(20)" json:"attachment_type,omitempty"`
	IsRead         bool           `gorm:"not null;default:false" json:"is_read"`
}
