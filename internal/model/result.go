package model

import "time"

// TableStatus is the outcome of processing one table.
type TableStatus string

const (
	TableCompleted TableStatus = "completed"
	TableFailed    TableStatus = "failed"
)

// TableResult records what happened to one configured table.
type TableResult struct {
	Table    string        `json:"table"`
	Status   TableStatus   `json:"status"`
	Rows     int           `json:"rows"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// RunResult collects the per-table outcomes of one run, in processing order.
type RunResult struct {
	RunID      string        `json:"run_id"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tables     []TableResult `json:"tables"`
}

// Failed returns the number of tables that were abandoned.
func (r *RunResult) Failed() int {
	n := 0
	for _, t := range r.Tables {
		if t.Status == TableFailed {
			n++
		}
	}
	return n
}

// RowsUpdated returns the number of rows updated across completed tables.
func (r *RunResult) RowsUpdated() int {
	n := 0
	for _, t := range r.Tables {
		if t.Status == TableCompleted {
			n += t.Rows
		}
	}
	return n
}
