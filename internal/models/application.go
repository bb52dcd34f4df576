package models

// Application - отклик работника на заказ.
// Пара (job_id, worker_id) уникальна на уровне БД.
type Application struct {
	BaseModel
	JobID           string            `gorm:"size:36;not null;uniqueIndex:idx_applications_job_worker" json:"job_id"`
	WorkerID        string            `gorm:"size:36;not null;uniqueIndex:idx_applications_job_worker" json:"worker_id"`
	Message         string            `gorm:"not null" json:"message"`
	ApplicationType ApplicationType   `gorm:"type:varchar(20);not null" json:"application_type"`
	ProposedPrice   *float64          `json:"proposed_price,omitempty"`
	Status          ApplicationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}

// ApplicationTerms - условия отклика. Реализации: DirectTerms и ProposalTerms.
type ApplicationTerms interface {
	Type() ApplicationType
	// ContractPrice возвращает цену договора с учётом цены в объявлении
	ContractPrice(listed float64) float64
}

// DirectTerms - отклик по цене из объявления
type DirectTerms struct{}

func (DirectTerms) Type() ApplicationType { return ApplicationTypeApplication }
func (DirectTerms) ContractPrice(listed float64) float64 { return listed }

// ProposalTerms - встречное предложение со своей ценой
type ProposalTerms struct {
	Price float64
}

func (ProposalTerms) Type() ApplicationType { return ApplicationTypeProposal }
func (p ProposalTerms) ContractPrice(float64) float64 { return p.Price }

// Terms восстанавливает вариант условий из хранимых колонок
func (a *Application) Terms() ApplicationTerms {
	if a.ApplicationType == ApplicationTypeProposal && a.ProposedPrice != nil {
		return ProposalTerms{Price: *a.ProposedPrice}
	}
	return DirectTerms{}
}

// SetTerms записывает вариант условий в колонки application_type / proposed_price
func (a *Application) SetTerms(t ApplicationTerms) {
	a.ApplicationType = t.Type()
	switch v := t.(type) {
	case ProposalTerms:
		price := v.Price
		a.ProposedPrice = &price
	default:
		a.ProposedPrice = nil
	}
}
