package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages line up with request bodies.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Register adds a custom rule to the shared validator.
// It must be called during package init, before any validation runs.
func Register(tag string, fn func(value string) bool) {
	err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate struct fields
func Validate(v interface{}) []FieldError {
	return collect(validate.Struct(v))
}

// ValidatePartial validates only the named struct fields (Go field names).
func ValidatePartial(v interface{}, fields ...string) []FieldError {
	if len(fields) == 0 {
		return nil
	}
	return collect(validate.StructPartial(v, fields...))
}

func collect(err error) []FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: "invalid"}}
	}

	errors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errors = append(errors, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return errors
}
