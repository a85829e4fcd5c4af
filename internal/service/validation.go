package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"flooring/internal/models"

	"github.com/go-playground/validator/v10"
)

// customerNamePattern allows letters, digits, periods and spaces. Commas are
// excluded because order files do not escape the field delimiter.
var customerNamePattern = regexp.MustCompile(`^[A-Za-z0-9. ]+$`)

var validate = mustValidator()

// rules are the custom validation tags used by request structs
var rules = map[string]validator.Func{
	"customername": func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return strings.TrimSpace(name) != "" && customerNamePattern.MatchString(name)
	},
}

func mustValidator() func(any) error {
	fn, err := newValidator(rules)
	if err != nil {
		panic(err)
	}
	return fn
}

func newValidator(custom map[string]validator.Func) (func(any) error, error) {
	v := validator.New()
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}

	return func(req any) error {
		err := v.Struct(req)
		if err == nil {
			return nil
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", models.ErrValidation, err)
		}

		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
	}, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s may not be blank", fe.Field())
	case "customername":
		return fmt.Sprintf("%s may only contain letters, digits, periods and spaces", fe.Field())
	case "len", "alpha":
		return fmt.Sprintf("%s must be a two-letter state abbreviation", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
