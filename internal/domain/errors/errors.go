package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

// FieldError is a single problem found on one field. Source names the file
// or config section the field came from and may be empty.
type FieldError struct {
	Source  string
	Field   string
	Message string
}

func (e FieldError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}
	if len(e.Items) == 1 {
		return "validation failed: " + e.Items[0].Error()
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// WithSource stamps every item that has no source yet.
func (e ValidationError) WithSource(source string) ValidationError {
	out := ValidationError{Items: make([]FieldError, len(e.Items))}
	for i, item := range e.Items {
		if item.Source == "" {
			item.Source = source
		}
		out.Items[i] = item
	}
	return out
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// Err returns nil when nothing was collected.
func (e ValidationError) Err() error {
	if !e.HasAny() {
		return nil
	}
	return e
}
