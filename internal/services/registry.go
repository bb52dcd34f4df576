package services

import (
	"kandu_backend/internal/email"
	"kandu_backend/internal/repositories"
	"kandu_backend/internal/repositories/admin"
	"kandu_backend/internal/storage"
	"kandu_backend/internal/views"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	JobService          JobService
	ApplicationService  ApplicationService
	LifecycleService    LifecycleService
	RatingService       RatingService
	ChatService         ChatService
	NotificationService NotificationService
	UploadService       UploadService
	AdminService        AdminService
}

// Dependencies - внешние ресурсы, которые сервисы получают при старте
type Dependencies struct {
	Storage     storage.Storage
	Email       email.Provider
	AppURL      string
	ViewCounter views.Counter
	Wipe        admin.WipeRepository
	Upload      UploadConfig
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	chatRepo := repositories.NewChatRepository()
	notificationRepo := repositories.NewNotificationRepository()
	ratingRepo := repositories.NewRatingRepository()
	blacklistRepo := repositories.NewBlacklistRepository()

	notificationService := NewNotificationService(notificationRepo, userRepo, deps.Email, deps.AppURL)
	authService := NewAuthService(userRepo, blacklistRepo)

	return &ServiceContainer{
		AuthService:         authService,
		UserService:         NewUserService(userRepo, jobRepo, authService, deps.Storage),
		JobService:          NewJobService(jobRepo, userRepo, deps.ViewCounter),
		ApplicationService:  NewApplicationService(applicationRepo, jobRepo, userRepo, chatRepo, notificationService),
		LifecycleService:    NewLifecycleService(jobRepo, userRepo, ratingRepo, notificationService),
		RatingService:       NewRatingService(ratingRepo, userRepo, jobRepo),
		ChatService:         NewChatService(chatRepo, userRepo, notificationService),
		NotificationService: notificationService,
		UploadService:       NewUploadService(deps.Storage, deps.Upload),
		AdminService:        NewAdminService(deps.Wipe, userRepo, jobRepo, applicationRepo, chatRepo, blacklistRepo),
	}
}
