package dto

// CompleteJobRequest - оценка второй стороны при завершении заказа
type CompleteJobRequest struct {
	Rating    int      `json:"rating" validate:"required,min=1,max=5"`
	Comment   string   `json:"comment" validate:"omitempty,max=2000"`
	Qualities []string `json:"qualities" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// CompletionResponse - результат завершения: новый статус и начисленная репутация
type CompletionResponse struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"`
	RatedID   string  `json:"rated_id"`
	XPGained  int     `json:"xp_gained"`
	NewXP     int     `json:"new_xp"`
	NewRating float64 `json:"new_rating"`
}
