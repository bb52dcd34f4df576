package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общие поля всех записей: серверный id и дата создания.
// В API дата создания отдаётся как created_date.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_date"`
	UpdatedAt time.Time `json:"updated_date"`
}

// BeforeCreate присваивает UUID, если id не задан явно
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
