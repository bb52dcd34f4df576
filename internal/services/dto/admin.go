package dto

import "kandu_backend/internal/models"

type BlacklistRequest struct {
	UserID string `json:"user_id" validate:"required,max=36"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// AdminUserQuery - фильтры списка пользователей
type AdminUserQuery struct {
	UserType string `form:"user_type" validate:"omitempty,is-user-type"`
	Status   string `form:"status" validate:"omitempty,oneof=active suspended banned"`
	Sort     string `form:"sort" validate:"omitempty,max=40"`
}

type AdminUserListResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type PlatformStats struct {
	UsersByType  map[models.UserType]int64  `json:"users_by_type"`
	JobsByStatus map[models.JobStatus]int64 `json:"jobs_by_status"`
	Applications int64                      `json:"applications"`
	Messages     int64                      `json:"messages"`
}
