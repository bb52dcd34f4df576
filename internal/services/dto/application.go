package dto

import "kandu_backend/internal/models"

// ApplyRequest - отклик или встречное предложение.
// Для proposal цена обязательна и должна быть больше нуля.
type ApplyRequest struct {
	Message         string                 `json:"message" validate:"required,min=1,max=2000"`
	ApplicationType models.ApplicationType `json:"application_type" validate:"required,is-application-type"`
	ProposedPrice   *float64               `json:"proposed_price,omitempty" validate:"omitempty,gt=0"`
}

// Terms переводит запрос в вариант условий
func (r *ApplyRequest) Terms() models.ApplicationTerms {
	if r.ApplicationType == models.ApplicationTypeProposal && r.ProposedPrice != nil {
		return models.ProposalTerms{Price: *r.ProposedPrice}
	}
	return models.DirectTerms{}
}

type ApplicationResponse struct {
	models.Application
	Worker *UserSummary `json:"worker,omitempty"`
	Job    *models.Job  `json:"job,omitempty"`
}

// ApplicationListQuery - фильтр "моих откликов"
type ApplicationListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=pending accepted rejected"`
}
