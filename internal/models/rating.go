package models

import "gorm.io/datatypes"

// Rating - оценка одной стороны заказа другой стороной.
// Тройка (job_id, rater_id, rated_id) уникальна.
type Rating struct {
	BaseModel
	JobID     string                      `gorm:"size:36;not null;uniqueIndex:idx_ratings_job_rater_rated" json:"job_id"`
	RaterID   string                      `gorm:"size:36;not null;uniqueIndex:idx_ratings_job_rater_rated" json:"rater_id"`
	RatedID   string                      `gorm:"size:36;not null;uniqueIndex:idx_ratings_job_rater_rated;index" json:"rated_id"`
	Rating    int                         `gorm:"not null" json:"rating"`
	Comment   string                      `json:"comment,omitempty"`
	Qualities datatypes.JSONSlice[string] `json:"qualities"`
}
