package leads

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilRequest is returned when Create is called without a payload
	ErrNilRequest = errors.New("leads: nil create request")
)

// Field error codes.
const (
	CodeRequired     = "required"
	CodeInvalidEmail = "invalid_email"
	CodeInvalidType  = "invalid_type"
	CodeInvalidBody  = "invalid_body"
)

// FieldError describes one failing field of an intake payload.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned when an intake payload fails the schema. It
// always carries at least one field error.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Code)
	}
	return fmt.Sprintf("leads: invalid payload (%s)", strings.Join(parts, ", "))
}

// Has reports whether the named field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
