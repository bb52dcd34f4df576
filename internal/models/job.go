package models

import "time"

type Job struct {
	BaseModel
	EmployerID  string    `gorm:"size:36;not null;index" json:"employer_id"`
	WorkerID    *string   `gorm:"size:36;index" json:"worker_id"`
	Title       string    `gorm:"not null" json:"title"`
	Category    string    `gorm:"not null;index" json:"category"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `gorm:"not null" json:"price"`
	PriceType   PriceType `gorm:"type:varchar(20);not null" json:"price_type"`
	Status      JobStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Urgency     Urgency   `gorm:"type:varchar(20);not null" json:"urgency"`

	// Плановые даты
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	// Фактические даты
	ActualStartDate *time.Time `json:"actual_start_date"`
	ActualEndDate   *time.Time `json:"actual_end_date"`

	Views int64 `gorm:"not null;default:0" json:"views"`
}

// IsOwnedBy - является ли пользователь автором заказа
func (j *Job) IsOwnedBy(userID string) bool { return j.EmployerID == userID }

// IsAssignedTo - назначен ли пользователь исполнителем
func (j *Job) IsAssignedTo(userID string) bool {
	return j.WorkerID != nil && *j.WorkerID == userID
}

// HasWorker - есть ли у заказа исполнитель
func (j *Job) HasWorker() bool { return j.WorkerID != nil && *j.WorkerID != "" }
