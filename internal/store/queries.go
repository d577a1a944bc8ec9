package store

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// idColumn is the surrogate key every processed table must expose.
const idColumn = "id"

// BuildSelect returns the statement enumerating candidate rows of a table:
//
//	SELECT id, f1, f2 FROM table [WHERE f1 <pred> AND f2 <pred>]
//
// Predicates are joined with AND without parentheses.
func (d Dialect) BuildSelect(table string, fields []string, excepts []model.Except) (string, error) {
	if err := checkIdentifiers(table, fields); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(append([]string{idColumn}, fields...), ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)

	if len(excepts) > 0 {
		conds := make([]string, len(excepts))
		for i, e := range excepts {
			if !model.ValidIdentifier(e.Field) {
				return "", fmt.Errorf("invalid column name %q", e.Field)
			}
			conds[i] = e.Field + " " + e.Predicate
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	query := b.String()
	if err := d.CheckSelect(query); err != nil {
		return "", err
	}
	return query, nil
}

// BuildUpdate returns the parameterized statement writing one row:
//
//	UPDATE table SET f1 = ?, f2 = ? WHERE id = ?
//
// Arguments are the field values in order followed by the row id.
func (d Dialect) BuildUpdate(table string, fields []string) (string, error) {
	if err := checkIdentifiers(table, fields); err != nil {
		return "", err
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("no fields to update in %s", table)
	}

	sets := make([]string, len(fields))
	for i, f := range fields {
		sets[i] = f + " = " + d.Placeholder(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		table, strings.Join(sets, ", "), idColumn, d.Placeholder(len(fields)+1)), nil
}

func checkIdentifiers(table string, fields []string) error {
	if !model.ValidIdentifier(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	for _, f := range fields {
		if !model.ValidIdentifier(f) {
			return fmt.Errorf("invalid column name %q", f)
		}
	}
	return nil
}
