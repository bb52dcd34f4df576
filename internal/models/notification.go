package models

type Notification struct {
	BaseModel
	UserID    string           `gorm:"size:36;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `json:"message"`
	RelatedID string           `gorm:"size:80" json:"related_id,omitempty"` // обычно id заказа
	ActionURL string           `json:"action_url,omitempty"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
}
