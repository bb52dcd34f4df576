package dto

import (
	"time"

	"kandu_backend/internal/models"
)

type CreateJobRequest struct {
	Title       string           `json:"title" validate:"required,min=3,max=200"`
	Category    string           `json:"category" validate:"required,max=100"`
	Description string           `json:"description" validate:"omitempty,max=5000"`
	Location    string           `json:"location" validate:"omitempty,max=255"`
	Price       *float64         `json:"price" validate:"required,gte=0"`
	PriceType   models.PriceType `json:"price_type" validate:"required,is-price-type"`
	Urgency     models.Urgency   `json:"urgency" validate:"omitempty,is-urgency"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
}

type UpdateJobRequest struct {
	Title       *string           `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Category    *string           `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location    *string           `json:"location,omitempty" validate:"omitempty,max=255"`
	Price       *float64          `json:"price,omitempty" validate:"omitempty,gte=0"`
	PriceType   *models.PriceType `json:"price_type,omitempty" validate:"omitempty,is-price-type"`
	Urgency     *models.Urgency   `json:"urgency,omitempty" validate:"omitempty,is-urgency"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
}

// JobListQuery - фильтры списка заказов (query string)
type JobListQuery struct {
	Status     string `form:"status" validate:"omitempty,is-job-status"`
	Category   string `form:"category" validate:"omitempty,max=100"`
	Urgency    string `form:"urgency" validate:"omitempty,is-urgency"`
	EmployerID string `form:"employer_id" validate:"omitempty,max=36"`
	WorkerID   string `form:"worker_id" validate:"omitempty,max=36"`
	Sort       string `form:"sort" validate:"omitempty,max=40"`
}

// JobResponse - заказ с карточками сторон
type JobResponse struct {
	models.Job
	Employer *UserSummary `json:"employer,omitempty"`
	Worker   *UserSummary `json:"worker,omitempty"`
}

type JobListResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}
