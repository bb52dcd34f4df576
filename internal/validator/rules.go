package validator

import (
	"log"

	"kandu_backend/internal/config"
	"kandu_backend/internal/lifecycle"
	"kandu_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила на основе statuses.go
func registerCustomRules(v *validator.Validate) {
	// Правило, которое не удалось зарегистрировать - ошибка конфигурации,
	// запускаться с ней нельзя.
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-type", oneOf(models.UserTypeWorker, models.UserTypeEmployer, models.UserTypeAdmin))
	// при онбординге можно выбрать только worker или employer
	mustRegister("is-onboarding-type", oneOf(models.UserTypeWorker, models.UserTypeEmployer))
	mustRegister("is-price-type", oneOf(models.PriceTypeFixed, models.PriceTypeHourly))
	mustRegister("is-urgency", oneOf(models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh))
	mustRegister("is-application-type", oneOf(models.ApplicationTypeApplication, models.ApplicationTypeProposal))
	mustRegister("is-attachment-type", oneOf(models.AttachmentTypeImage, models.AttachmentTypeDocument))
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-upload-usage", validateUploadUsage)
}

// oneOf - правило "значение из перечня". Пустое значение пропускается,
// для обязательности есть 'required'.
func oneOf[T ~string](allowed ...T) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[string(a)] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := set[value]
		return ok
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := lifecycle.ParseStatus(value)
	return err == nil
}

func validateUploadUsage(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := config.UploadUsages[value]
	return ok
}
