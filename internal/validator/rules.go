package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"markethub_backend/internal/models"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Правило не зарегистрировалось - приложение не должно запускаться
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-payment-status", validatePaymentStatus)
	mustRegister("is-target-type", validateTargetType)
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Пустые значения проверяет 'required'
	}
	return models.ApplicationStatus(value).Valid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PaymentMethod(value).Valid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PaymentStatus(value).Valid()
}

func validateTargetType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.TargetType(value).Valid()
}
