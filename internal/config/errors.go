package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid field of a plan file.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
