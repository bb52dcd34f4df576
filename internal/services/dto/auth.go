package dto

import "kandu_backend/internal/models"

// RegisterRequest - запрос регистрации. Тип аккаунта можно выбрать сразу
// или позже через онбординг.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	FullName string          `json:"full_name" validate:"required,min=2,max=100"`
	UserType models.UserType `json:"user_type" validate:"omitempty,is-onboarding-type"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - токен доступа и текущий пользователь
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}
