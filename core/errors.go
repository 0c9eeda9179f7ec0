package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific config field.
type FieldError struct {
	Field string
	Error string
}

// ConfigError covers everything that makes a run impossible before the first request:
// missing config file, unknown student key, empty credentials.
type ConfigError struct {
	Msg        string
	Suggestion string
	Fields     []FieldError
}

func NewConfigError(msg string, flds ...FieldError) error {
	return &ConfigError{Msg: msg, Fields: flds}
}

func (err *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(err.Msg)
	if err.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", err.Suggestion)
	}
	for _, fe := range err.Fields {
		fmt.Fprintf(&b, "\n  %s: %s", fe.Field, fe.Error)
	}
	return b.String()
}

// APIError is an upstream error response. Body is the raw payload as sent by Canvas.
type APIError struct {
	Status   int
	Endpoint string
	Body     []byte
}

func (err *APIError) Error() string {
	return fmt.Sprintf("canvas API error (HTTP %d) on %s: %s", err.Status, err.Endpoint, strings.TrimSpace(string(err.Body)))
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}
