// Package model holds the table and field specification types shared by the
// config loader, the generators and the table processor.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldSpec describes how to synthesize one column's value. A bare type tag
// in the config document becomes a FieldSpec with only Type set.
type FieldSpec struct {
	Type   string
	Unique bool
	Except string

	// Attrs carries every key of a structured spec, including type, unique
	// and except, so generators can read their own options.
	Attrs map[string]any
}

// Field is one configured column of a table.
type Field struct {
	Name string
	Spec FieldSpec
}

// Table is one configured table. Fields keep document order.
type Table struct {
	Name   string
	Fields []Field
}

// Except pairs a field with the predicate fragment scoping which rows are
// eligible for regeneration.
type Except struct {
	Field     string
	Predicate string
}

// ParseFieldSpec converts a decoded config value into a FieldSpec. Strings are
// bare type tags; mappings are structured specs. A nil value yields a spec
// with an empty Type.
func ParseFieldSpec(raw any) (FieldSpec, error) {
	switch v := raw.(type) {
	case nil:
		return FieldSpec{}, nil
	case string:
		return FieldSpec{Type: v}, nil
	case map[string]any:
		spec := FieldSpec{Attrs: v}
		if t, ok := v["type"]; ok && t != nil {
			spec.Type = fmt.Sprint(t)
		}
		if u, ok := v["unique"]; ok && u != nil {
			b, err := toBool(u)
			if err != nil {
				return FieldSpec{}, fmt.Errorf("unique: %w", err)
			}
			spec.Unique = b
		}
		if e, ok := v["except"]; ok && e != nil {
			spec.Except = strings.TrimSpace(fmt.Sprint(e))
		}
		return spec, nil
	default:
		return FieldSpec{Type: fmt.Sprint(v)}, nil
	}
}

// Has reports whether the structured spec sets key.
func (s FieldSpec) Has(key string) bool {
	_, ok := s.Attrs[key]
	return ok
}

// Value returns the raw attribute for key, or def when absent.
func (s FieldSpec) Value(key string, def any) any {
	if v, ok := s.Attrs[key]; ok {
		return v
	}
	return def
}

// String returns the attribute for key formatted as a string, or def when absent.
func (s FieldSpec) String(key, def string) string {
	v, ok := s.Attrs[key]
	if !ok || v == nil {
		return def
	}
	return fmt.Sprint(v)
}

// Int returns the attribute for key as an int, or def when absent.
func (s FieldSpec) Int(key string, def int) (int, error) {
	v, ok := s.Attrs[key]
	if !ok || v == nil {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// List returns the attribute for key as a list, or def when absent.
func (s FieldSpec) List(key string, def []any) ([]any, error) {
	v, ok := s.Attrs[key]
	if !ok || v == nil {
		return def, nil
	}
	switch l := v.(type) {
	case []any:
		return l, nil
	case []string:
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected a list, got %T", key, v)
	}
}

// FieldNames returns the configured column names in order.
func (t Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Excepts returns the except predicates declared on the table's fields, in
// field order.
func (t Table) Excepts() []Except {
	var out []Except
	for _, f := range t.Fields {
		if f.Spec.Except != "" {
			out = append(out, Except{Field: f.Name, Predicate: f.Spec.Except})
		}
	}
	return out
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return int(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("invalid boolean %q", b)
		}
		return parsed, nil
	default:
		n, err := toInt(v)
		if err != nil {
			return false, fmt.Errorf("expected a boolean, got %T", v)
		}
		return n != 0, nil
	}
}
