package models

import "gorm.io/datatypes"

// Document - документ в профиле работника (сертификат, допуск и т.п.)
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	UserType     UserType   `gorm:"type:varchar(20);not null;default:''" json:"user_type"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`

	// Репутация. Меняется только при завершении заказа и при wipe.
	Rating float64 `gorm:"not null;default:0" json:"rating"`
	XP     int     `gorm:"not null;default:0" json:"xp"`

	Skills          datatypes.JSONSlice[string]   `json:"skills"`
	PortfolioImages datatypes.JSONSlice[string]   `json:"portfolio_images"`
	Documents       datatypes.JSONSlice[Document] `json:"documents"`
}

func (u *User) IsAdmin() bool { return u.UserType == UserTypeAdmin }
