package model

import (
	"strings"
	"testing"
)

// validTables returns tables that pass all validation rules.
func validTables() []Table {
	return []Table{
		{
			Name: "users",
			Fields: []Field{
				{Name: "email", Spec: FieldSpec{Type: "emailunique"}},
				{Name: "age", Spec: FieldSpec{Type: "integer", Except: "> 100"}},
			},
		},
		{
			Name:   "public.orders",
			Fields: []Field{{Name: "notes", Spec: FieldSpec{Type: "sentence"}}},
		},
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateTables_Valid(t *testing.T) {
	if err := ValidateTables(validTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTables_MissingType(t *testing.T) {
	tables := validTables()
	tables[0].Fields[0].Spec.Type = ""
	errs := fieldErrors(t, ValidateTables(tables))
	if !hasFieldError(errs, "users.email") {
		t.Errorf("expected error on users.email, got %v", errs)
	}
}

func TestValidateTables_NamesAreNotChecked(t *testing.T) {
	for _, tc := range []struct {
		name   string
		tables []Table
	}{
		{"TableWithDash", []Table{{Name: "legacy-log", Fields: []Field{{Name: "email", Spec: FieldSpec{Type: "email"}}}}}},
		{"TableInjection", []Table{{Name: "users;drop", Fields: []Field{{Name: "email", Spec: FieldSpec{Type: "email"}}}}}},
		{"FieldQuoted", []Table{{Name: "users", Fields: []Field{{Name: "`email`", Spec: FieldSpec{Type: "email"}}}}}},
		{"NoFields", []Table{{Name: "users"}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateTables(tc.tables); err != nil {
				t.Errorf("ValidateTables() = %v, want nil", err)
			}
		})
	}
}

func TestValidateTables_ReportsEveryMissingType(t *testing.T) {
	tables := validTables()
	tables[0].Fields[1].Spec.Type = "  "
	tables[1].Fields[0].Spec.Type = ""
	errs := fieldErrors(t, ValidateTables(tables))
	if len(errs) != 2 || !hasFieldError(errs, "users.age") || !hasFieldError(errs, "public.orders.notes") {
		t.Errorf("errors = %v, want users.age and public.orders.notes", errs)
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"users", true},
		{"public.orders", true},
		{"_tmp$1", true},
		{"legacy-log", false},
		{"my users", false},
		{"users;drop", false},
		{"`email`", false},
		{"a.b.c", false},
	} {
		if got := ValidIdentifier(tc.in); got != tc.want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "users.email", Message: "type is required"},
		{Field: "bad table", Message: "invalid table name"},
	}}
	msg := ve.Error()
	if !strings.HasPrefix(msg, "validation failed: ") {
		t.Errorf("Error() = %q, want validation failed prefix", msg)
	}
	if !strings.Contains(msg, "users.email: type is required; bad table: invalid table name") {
		t.Errorf("Error() = %q, missing joined field messages", msg)
	}
}
