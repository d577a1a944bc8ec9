package store

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// CheckSelect rejects a built SELECT whose except fragments turned it into
// something other than a single SELECT statement. MySQL statements are
// parsed; Postgres statements only have statement separators rejected.
func (d Dialect) CheckSelect(query string) error {
	if d == Postgres {
		if strings.Contains(query, ";") {
			return fmt.Errorf("except predicates must not contain ';'")
		}
		return nil
	}

	stmts, _, err := parser.New().Parse(query, "", "")
	if err != nil {
		return fmt.Errorf("parse select: %w", err)
	}
	if len(stmts) != 1 {
		return fmt.Errorf("except predicates produced %d statements, want 1", len(stmts))
	}
	if _, ok := stmts[0].(*ast.SelectStmt); !ok {
		return fmt.Errorf("except predicates produced a %T, want a SELECT", stmts[0])
	}
	return nil
}
