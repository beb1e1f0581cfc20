package domain

import (
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/common"
)

// ErrMalformedResponse is returned when a payload does not match the
// expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// FieldError is one failed field check.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects failed field checks. It matches
// common.ErrorValidation under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError with a single field failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when nothing was collected, so callers can build a
// ValidationError unconditionally and return it.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}
