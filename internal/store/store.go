// Package store builds the SQL the table processor runs against the target
// database. Values are always bound as parameters; only validated table and
// column names and the configured except fragments become SQL text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Executor is the interface satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Dialect selects the driver, placeholder style and statement checks for a
// database flavor.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "", "mysql", "mariadb", "tidb":
		return MySQL, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported driver %q (must be mysql or postgres)", driver)
	}
}

// DriverName returns the database/sql driver name registered for d.
func (d Dialect) DriverName() string {
	return string(d)
}

// Placeholder returns the bind placeholder for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
