package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var seatIDRgx = regexp.MustCompile(`^[A-Z][0-9]{1,2}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_id", validateSeatID)

	return validator
}

// validateSeatID accepts seat ids of the form <RowLetter><ColumnNumber>,
// e.g. "C7" or "D10".
func validateSeatID(fl validator.FieldLevel) bool {
	return seatIDRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must match the format %s", err.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s items", err.Param())
	case "max":
		return fmt.Sprintf("must contain at most %s items", err.Param())
	case "seat_id":
		return "must be a seat id like C7 (row letter followed by column number)"
	default:
		return "is invalid"
	}
}
