package model

import (
	"regexp"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// identifierRe accepts plain or schema-qualified SQL identifiers.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// ValidIdentifier reports whether name can be interpolated into SQL text as a
// table or column name.
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// ValidateTables checks that every field names a type. A missing type is a
// configuration error for the whole run; bad table or column names are left
// to the statement builders so only that table fails. It returns a
// *ValidationError if any field lacks a type, or nil.
func ValidateTables(tables []Table) error {
	var ve ValidationError

	for _, t := range tables {
		for _, f := range t.Fields {
			if strings.TrimSpace(f.Spec.Type) == "" {
				ve.Errors = append(ve.Errors, FieldError{Field: t.Name + "." + f.Name, Message: "type is required"})
			}
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
