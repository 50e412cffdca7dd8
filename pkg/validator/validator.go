package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
}

type validator struct {
	v *playground.Validate
}

// New returns a Validator reading `validate` tags. Field names in errors use
// the json or mapstructure name when one is set.
func New() Validator {
	v := playground.New()
	v.RegisterTagNameFunc(fieldName)
	return &validator{v: v}
}

func (v *validator) Validate(obj interface{}) error {
	if err := v.v.Struct(obj); err != nil {
		return errors.New(Describe(err))
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "mapstructure", "form"} {
		name := strings.Split(f.Tag.Get(tag), ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Describe renders validation errors as one readable sentence per field.
// Other errors are returned as their message.
func Describe(err error) string {
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeField(fe playground.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
