package paint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a style value outside its accepted range
	// or one that could not be parsed.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidToolName reports a tool name outside the known tool set.
	ErrInvalidToolName = errors.New("invalid tool name")
)

// ParameterError describes a rejected style value.
type ParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

func invalid(field string, value any, reason string) error {
	return &ParameterError{Field: field, Value: fmt.Sprint(value), Reason: reason}
}
