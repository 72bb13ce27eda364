package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError wraps a failure while loading configuration.
type ConfigError struct {
	Op  string // dotenv, bind_env, read, unmarshal
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FieldError is a single invalid setting, keyed by its config path.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// ValidationError collects every invalid field found by Validate.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0].String()
	}
	lines := make([]string, len(e.Errors))
	for i, f := range e.Errors {
		lines[i] = f.String()
	}
	return fmt.Sprintf("invalid configuration (%d fields):\n  - %s", len(e.Errors), strings.Join(lines, "\n  - "))
}

// HasError reports whether field failed validation.
func (e *ValidationError) HasError(field string) bool {
	for _, f := range e.Errors {
		if f.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}
