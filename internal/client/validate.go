package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their wire name.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest checks in against its validation tags. The returned error
// is a KindValidation *Error; nothing is sent when it is non-nil.
func validateRequest(op string, in any) error {
	err := requestValidator().Struct(in)
	if err == nil {
		return nil
	}
	return validationError(op, "", err)
}

// validateEach validates every element of a batch request, prefixing field
// names with the element index.
func validateEach[T any](op string, items []T) error {
	if len(items) == 0 {
		return &Error{
			Kind:      KindValidation,
			Operation: op,
			Message:   "at least one item is required",
		}
	}

	var merged *Error
	for i := range items {
		err := requestValidator().Struct(items[i])
		if err == nil {
			continue
		}
		e := validationError(op, fmt.Sprintf("[%d].", i), err)
		if merged == nil {
			merged = e
			continue
		}
		for k, v := range e.Fields {
			merged.Fields[k] = v
		}
		merged.Message += "; " + e.Message
	}
	if merged == nil {
		return nil
	}
	return merged
}

func validationError(op, prefix string, err error) *Error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &Error{Kind: KindValidation, Operation: op, Message: err.Error(), Err: err}
	}

	fields := make(map[string]string, len(ve))
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		name := prefix + fieldPath(fe)
		msg := fieldError(name, fe)
		fields[name] = msg
		msgs = append(msgs, msg)
	}
	return &Error{
		Kind:      KindValidation,
		Operation: op,
		Message:   strings.Join(msgs, "; "),
		Fields:    fields,
		Err:       err,
	}
}

// fieldPath strips the top-level struct name from the namespace, leaving
// e.g. "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// fieldError converts a single validation failure into a readable message.
func fieldError(field string, fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
