package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// requestValidator wraps go-playground/validator with the tags this API uses
// and JSON field names in messages.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("maxbytes", validateMaxBytes)
	return &requestValidator{v: v}
}

// Validate returns nil or a validator.ValidationErrors.
func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// validateClock accepts HH:MM and HH:MM:SS.
func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// validateMaxBytes bounds the UTF-8 length of a string. bcrypt rejects
// passwords over 72 bytes regardless of how many characters they hold.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// validationMessage collapses field errors into one client message. Any
// missing required field yields requiredMsg.
func validationMessage(err error, requiredMsg string) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return requiredMsg
		}
		msgs = append(msgs, fieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "clock":
		return field + " must be a time (HH:MM or HH:MM:SS)"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
