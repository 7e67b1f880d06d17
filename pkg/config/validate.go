package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks cfg. All problems are reported in one error.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errs.New(errs.ErrCodeInvalidConfig, "config is nil")
	}
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errs.New(errs.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

// describe turns a field error into "act.url: must be an http(s) URL".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "required_with":
		return fmt.Sprintf("%s: is required when %s is set", field, fe.Param())
	case "excluded_with":
		if fe.Param() == "Mongo" {
			return field + ": cannot be combined with snapshot.mongo"
		}
		return fmt.Sprintf("%s: cannot be combined with %s", field, fe.Param())
	case "http_url", "url":
		return field + ": must be an http(s) URL"
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", field, fe.Value(), fe.Param())
	case "numeric":
		return field + ": must be numeric"
	default:
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}
