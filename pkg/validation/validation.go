// Package validation wraps a single shared validator instance for request
// body structs.
package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct tags of s and returns the raw error.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors flattens a validator error into field -> constraint pairs for
// 422 responses. Returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
