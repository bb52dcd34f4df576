package dto

import "kandu_backend/internal/models"

type UpdateProfileRequest struct {
	FullName  *string  `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,max=32"`
	Bio       *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	AvatarURL *string  `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
	Skills    []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
}

// SetUserTypeRequest - выбор типа аккаунта при онбординге
type SetUserTypeRequest struct {
	UserType models.UserType `json:"user_type" validate:"required,is-onboarding-type"`
}

type PortfolioImageRequest struct {
	URL string `json:"url" validate:"required,max=500"`
}

type AddDocumentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	URL  string `json:"url" validate:"required,max=500"`
	Type string `json:"type" validate:"omitempty,max=50"`
}

type RemoveDocumentRequest struct {
	URL string `json:"url" validate:"required,max=500"`
}

// UserSummary - краткая карточка участника заказа или переписки
type UserSummary struct {
	ID        string          `json:"id"`
	FullName  string          `json:"full_name"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	UserType  models.UserType `json:"user_type"`
	Rating    float64         `json:"rating"`
	XP        int             `json:"xp"`
}

func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		UserType:  u.UserType,
		Rating:    u.Rating,
		XP:        u.XP,
	}
}

// PublicProfile - профиль пользователя, видимый другим. Без email и телефона.
type PublicProfile struct {
	UserSummary
	Bio             string            `json:"bio,omitempty"`
	Skills          []string          `json:"skills"`
	PortfolioImages []string          `json:"portfolio_images"`
	Documents       []models.Document `json:"documents"`
	CompletedJobs   int64             `json:"completed_jobs"`
}
