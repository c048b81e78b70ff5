package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json name
// and knows the "username" tag.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldMessage is a user facing message for one invalid field.
type FieldMessage struct {
	Field   string
	Message string
}

// Messages converts validation errors to user facing messages in field order.
func Messages(err error) []FieldMessage {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		if err == nil {
			return nil
		}
		return []FieldMessage{{Message: err.Error()}}
	}

	out := make([]FieldMessage, 0, len(validationErrs))
	for _, e := range validationErrs {
		label := humanize(e.Field())
		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", label)
		case "email":
			msg = "Invalid email format"
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
		case "username":
			msg = fmt.Sprintf("%s can only contain letters, numbers, dots, underscores, and hyphens", label)
		default:
			msg = fmt.Sprintf("%s is invalid", label)
		}
		out = append(out, FieldMessage{Field: e.Field(), Message: msg})
	}
	return out
}

// Describe joins all messages of err into one sentence list.
func Describe(err error) string {
	msgs := Messages(err)
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = m.Message
	}
	return strings.Join(parts, "; ")
}

// humanize turns "course_code" into "Course code".
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
