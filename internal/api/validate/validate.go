// Package validate checks decoded request bodies with go-playground/validator
// and reports the first violated rule as a model.ErrValidation.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/agleymelo/daily-diet-api/internal/model"
)

var (
	v    *validator.Validate
	once sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// report wire names (json tags) rather than Go field names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("mealdate", func(fl validator.FieldLevel) bool {
			_, err := model.ParseMealDate(fl.Field().String())
			return err == nil
		})
	})
	return v
}

// Struct validates s and returns an error describing the first violated rule.
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, message(ves[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "mealdate":
		return fmt.Sprintf("%s must be YYYY-MM-DD or an RFC 3339 date-time", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Message strips the sentinel prefix so handlers can echo just the rule.
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
}
