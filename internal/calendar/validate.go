package calendar

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"contentcal/internal/model"
)

// newValidator registers the tags used by ScheduleRequest:
//
//	nonblank - string with at least one non-space rune
//	clock    - HH:MM time of day
//	rrule    - recurrence rule body
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := model.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("rrule", func(fl validator.FieldLevel) bool {
		return ValidRecurrence(fl.Field().String())
	})
	return v
}

var tagReasons = map[string]string{
	"required": "is required",
	"nonblank": "must not be blank",
	"clock":    "must be a valid HH:MM time of day",
	"rrule":    "must be a valid DAILY, WEEKLY, MONTHLY or YEARLY recurrence rule",
	"max":      "is too long",
}

// toValidationError maps the first validator failure onto ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason, ok := tagReasons[fe.Tag()]
	if !ok {
		reason = "failed " + fe.Tag() + " check"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}
