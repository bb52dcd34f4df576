package handlers

import (
	"kandu_backend/internal/services"
	"kandu_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
	FileHandler         *FileHandler
	AdminHandler        *AdminHandler
}

// NewAppHandlers собирает хэндлеры поверх контейнера сервисов
func NewAppHandlers(v *validator.Validator, s *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, s.AuthService),
		UserHandler:         NewUserHandler(base, s.UserService, s.RatingService),
		JobHandler:          NewJobHandler(base, s.JobService, s.ApplicationService, s.LifecycleService, s.RatingService),
		ApplicationHandler:  NewApplicationHandler(base, s.ApplicationService),
		ChatHandler:         NewChatHandler(base, s.ChatService),
		NotificationHandler: NewNotificationHandler(base, s.NotificationService),
		UploadHandler:       NewUploadHandler(base, s.UploadService),
		FileHandler:         NewFileHandler(base, s.UploadService),
		AdminHandler:        NewAdminHandler(base, s.AdminService, s.ChatService),
	}
}
