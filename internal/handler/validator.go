package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Register custom validation for open mode
	_ = v.RegisterValidation("openmode", validateOpenMode)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation function for open mode
func validateOpenMode(fl validator.FieldLevel) bool {
	return domain.OpenMode(fl.Field().String()).Valid()
}
