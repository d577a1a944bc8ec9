// Package anonymize rewrites the configured columns of each table with
// generated values.
package anonymize

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/model"
	"github.com/alfredjeanlab/dbfaker/internal/store"
)

// Processor rewrites one table at a time.
type Processor struct {
	db      *sql.DB
	dialect store.Dialect
	gen     *generator.Registry
	logger  *slog.Logger

	// DryRun rolls every table back instead of committing.
	DryRun bool
}

// NewProcessor returns a Processor writing through db.
func NewProcessor(db *sql.DB, dialect store.Dialect, gen *generator.Registry, logger *slog.Logger) *Processor {
	return &Processor{db: db, dialect: dialect, gen: gen, logger: logger}
}

// ProcessTable selects the candidate rows of table and updates each of them
// with one fresh value per configured field. All updates share a single
// transaction that is committed once, or rolled back on any error. It
// returns the number of rows updated.
func (p *Processor) ProcessTable(ctx context.Context, table model.Table) (int, error) {
	fields := table.FieldNames()
	selectSQL, err := p.dialect.BuildSelect(table.Name, fields, table.Excepts())
	if err != nil {
		return 0, err
	}
	updateSQL, err := p.dialect.BuildUpdate(table.Name, fields)
	if err != nil {
		return 0, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	n, err := p.rewrite(ctx, tx, table, selectSQL, updateSQL)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.logger.Warn("rollback failed", "table", table.Name, "err", rbErr)
		}
		return 0, err
	}

	if p.DryRun {
		if err := tx.Rollback(); err != nil {
			return 0, fmt.Errorf("rollback dry run: %w", err)
		}
		p.logger.Debug("dry run rolled back", "table", table.Name, "rows", n)
		return n, nil
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func (p *Processor) rewrite(ctx context.Context, tx store.Executor, table model.Table, selectSQL, updateSQL string) (int, error) {
	ids, err := selectIDs(ctx, tx, selectSQL, len(table.Fields))
	if err != nil {
		return 0, err
	}
	p.logger.Debug("selected rows", "table", table.Name, "rows", len(ids), "query", selectSQL)

	args := make([]any, len(table.Fields)+1)
	for _, id := range ids {
		for i, f := range table.Fields {
			v, err := p.gen.Generate(f.Spec)
			if err != nil {
				return 0, fmt.Errorf("field %s: %w", f.Name, err)
			}
			args[i] = v
		}
		args[len(table.Fields)] = id
		if _, err := tx.ExecContext(ctx, updateSQL, args...); err != nil {
			return 0, fmt.Errorf("update %s id=%v: %w", table.Name, id, err)
		}
	}
	return len(ids), nil
}

// selectIDs reads every candidate row id before any update runs. The field
// columns are selected alongside but not used.
func selectIDs(ctx context.Context, q store.Executor, query string, nFields int) ([]any, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer rows.Close()

	dest := make([]any, nFields+1)
	var id any
	dest[0] = &id
	for i := 1; i < len(dest); i++ {
		dest[i] = new(sql.RawBytes)
	}

	var ids []any
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return ids, nil
}
