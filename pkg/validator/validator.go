package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates request structs using `validate` tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks obj against its struct tags and returns an error naming
// the first offending field.
func (v *Validator) Validate(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return fmt.Errorf("field %s failed on %s", fieldName(fe), fe.Tag())
	}
	return err
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace looks like "BookServiceRequest.CustomerEmail";
	// report just the field part.
	parts := strings.Split(fe.StructNamespace(), ".")
	return parts[len(parts)-1]
}
