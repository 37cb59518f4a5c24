package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their wire names: json for bodies, form for query strings.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct runs tag validation and translates failures into FieldErrors.
func validateStruct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the root struct name: "CompanyForManipulation.employees[0].age" -> "employees[0].age".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is a required field"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("maximum length is %s characters", fe.Param())
		}
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("minimum length is %s characters", fe.Param())
		}
		return fmt.Sprintf("can't be lower than %s", fe.Param())
	case "gtefield":
		if fe.Field() == "maxAge" {
			return "max age can't be less than min age"
		}
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func unknownTokens(field string, tokens []string) []FieldError {
	out := make([]FieldError, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, FieldError{Field: field, Message: fmt.Sprintf("unknown property %q", t)})
	}
	return out
}
