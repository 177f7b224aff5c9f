package dto

import (
	"fmt"
	"strings"

	"chatdesk-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct tag validation and condenses the first failure
// into a field-specific validation error.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperr.Validation(fmt.Sprintf("%s is required", field))
		case "email":
			return apperr.Validation("invalid email format")
		case "min":
			return apperr.Validation(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			return apperr.Validation(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "alphanum":
			return apperr.Validation(fmt.Sprintf("%s must be alphanumeric", field))
		default:
			return apperr.Validation(fmt.Sprintf("%s is invalid", field))
		}
	}
	return apperr.Validation("invalid request body")
}
