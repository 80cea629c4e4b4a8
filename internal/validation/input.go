package validation

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/models"
)

var validate = validator.New()

// fieldNames maps struct fields to the names used in messages.
var fieldNames = map[string]string{
	"Title":    "title",
	"Category": "category",
	"Start":    "start",
	"End":      "end",
}

// ValidateNewSlot checks the admin create input before it is sent anywhere.
// The returned error is an errors.ValidationErrors.
func ValidateNewSlot(in models.NewSlot) error {
	in.Title = strings.TrimSpace(in.Title)
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err
	}

	out := make(errors.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, errors.ValidationError{
			Field:   fieldName(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

// MissingFields reports whether the failure is only about empty required
// fields, which the UI shows as a single "fill all fields" prompt.
func MissingFields(err error) bool {
	var vs errors.ValidationErrors
	if !stderrors.As(err, &vs) || len(vs) == 0 {
		return false
	}
	for _, v := range vs {
		if v.Message != "is required" {
			return false
		}
	}
	return true
}

func fieldName(f string) string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return strings.ToLower(f)
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gtfield":
		return "must be after " + fieldName(fe.Param())
	default:
		return "is invalid"
	}
}
