package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedProduct is returned when a value claiming to be a product does not fit the schema.
var ErrMalformedProduct = errors.New("malformed product record")

// ValidationError lists the fields that failed validation, keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: invalid fields %s", ErrMalformedProduct, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformedProduct
}

var validate = NewValidator()

// NewValidator returns a validator that understands the stockstatus tag and
// reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("stockstatus", func(fl validator.FieldLevel) bool {
		return StockStatus(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("models: registering stockstatus validation: %v", err))
	}
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrMalformedProduct, err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &ValidationError{Fields: fields}
}
