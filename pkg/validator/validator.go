package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// NormalizeEmail trims and lower-cases an address and checks its syntax.
// Two inputs that differ only in case or surrounding whitespace normalize to the same value.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("the email address is empty")
	}

	if err := instance().Var(email, "email,max=120"); err != nil {
		return "", fmt.Errorf("the email address %q is not valid", raw)
	}

	return email, nil
}

// HasTag reports whether any field of a validation error failed the given tag.
func HasTag(err error, tag string) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, fieldError := range validationErrors {
		if fieldError.Tag() == tag {
			return true
		}
	}
	return false
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Email":          "email",
		"Password":       "password",
		"FirstName":      "first_name",
		"LastName":       "last_name",
		"DateOfBirth":    "date_of_birth",
		"Address":        "address",
		"Title":          "title",
		"Company":        "company",
		"Description":    "description",
		"RequiredSkills": "required_skills",
		"PostingDate":    "posting_date",
		"Status":         "status",
		"Role":           "role",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
