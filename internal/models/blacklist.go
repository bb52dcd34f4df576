package models

type Blacklist struct {
	BaseModel
	UserID  string `gorm:"size:36;not null;index" json:"user_id"`
	Reason  string `json:"reason"`
	AddedBy string `gorm:"size:36" json:"added_by"`
}
