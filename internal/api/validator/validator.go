package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("user_status", validateUserStatus); err != nil {
		return nil
	}
	if err := v.RegisterValidation("reservation_status", validateReservationStatus); err != nil {
		return nil
	}
	if err := v.RegisterValidation("pqrs_status", validatePqrsStatus); err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

func validateUserStatus(fl playgroundvalidator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "ACTIVE" || status == "INACTIVE"
}

func validateReservationStatus(fl playgroundvalidator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "PENDING" || status == "APPROVED" || status == "CANCELLED"
}

func validatePqrsStatus(fl playgroundvalidator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "OPEN" || status == "IN_REVIEW" || status == "CLOSED"
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}
