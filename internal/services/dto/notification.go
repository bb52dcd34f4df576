package dto

import "kandu_backend/internal/models"

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
