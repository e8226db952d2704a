// Package service holds the business rules that sit between HTTP handlers
// and repositories: input validation, session and ticket invariants, the
// per-entity admin CRUD services, the browse aggregates and search
// orchestration.  Catalog writes publish catalog.changed events.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/kino/internal/utils"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator.  Field errors are reported under
// the JSON names of the fields.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// poster: absolute http(s) URL with host and path, or /media/...
		_ = v.RegisterValidation("poster", func(fl validator.FieldLevel) bool {
			return utils.IsPosterURL(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// ValidationError maps field names to messages.  Handlers render it as
// 422 {"errors": Fields}.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns e as an error, or nil when no field failed.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// FieldError builds a single-field validation error.
func FieldError(field, msg string) error {
	ve := &ValidationError{}
	ve.Add(field, msg)
	return ve
}

// Validate checks the struct tags of s and returns a *ValidationError or
// nil.
func Validate(s any) error { return validateStruct(s).Err() }

// validateStruct runs the struct tags of s.  The result is never nil so
// callers can add their own checks before calling Err.
func validateStruct(s any) *ValidationError {
	err := Validator().Struct(s)
	if err == nil {
		return &ValidationError{}
	}
	ve := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("non_field_errors", err.Error())
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe), translate(fe))
	}
	return ve
}

// fieldPath drops the struct name from the namespace: "MovieInput.genres[1]"
// becomes "genres[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func translate(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		if isString {
			return fmt.Sprintf("ensure this value has at most %s characters", param)
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", param)
	case "min":
		if isString {
			return fmt.Sprintf("ensure this value has at least %s characters", param)
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", param)
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", param)
	case "email":
		return "enter a valid email address"
	case "datetime":
		return "enter a valid date in YYYY-MM-DD format"
	case "poster":
		return "enter an http(s) URL with a path or a /media/ path"
	case "alphanumunicode":
		return "use letters and digits only"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
