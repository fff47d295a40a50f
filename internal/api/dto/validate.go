package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

var validate = validator.New()

// Validate checks struct tags on a request payload and converts violations
// into the caller-facing validation error shape.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		details := map[string]any{}
		var violations validator.ValidationErrors
		if ok := isValidationErrors(err, &violations); ok {
			for _, violation := range violations {
				details[violation.Field()] = violation.Tag()
			}
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	violations, ok := err.(validator.ValidationErrors)
	if ok {
		*target = violations
	}
	return ok
}
