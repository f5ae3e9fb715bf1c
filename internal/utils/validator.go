// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/placese/placese-beatstore/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterValidation("slug", validateSlug)
	validate.RegisterValidation("price", validatePrice)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// decimalValue lets tags see a decimal as its string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateSlug(fl validator.FieldLevel) bool {
	return slug.IsSlug(fl.Field().String())
}

func validatePrice(fl validator.FieldLevel) bool {
	price, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return models.ValidatePrice(price) == nil
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "slug":
		return e.Field() + " must contain only lowercase letters, digits and hyphens"
	case "price":
		return e.Field() + " must be a non-negative amount with at most 2 decimal places"
	default:
		return e.Field() + " is invalid"
	}
}
