// Package events announces anonymization progress on the event bus.
package events

import (
	"context"
	"time"
)

// Subject prefix shared by every dbfaker topic. Watchers subscribe to
// TopicAll.
const (
	SubjectPrefix = "dbfaker"
	TopicAll      = SubjectPrefix + ".>"
)

// Event topic constants
const (
	TopicTableStarted   = SubjectPrefix + ".table.started"
	TopicTableCompleted = SubjectPrefix + ".table.completed"
	TopicTableFailed    = SubjectPrefix + ".table.failed"
	TopicRunCompleted   = SubjectPrefix + ".run.completed"
)

// Event types

type TableStarted struct {
	RunID  string   `json:"run_id"`
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
	DryRun bool     `json:"dry_run,omitempty"`
}

type TableCompleted struct {
	RunID    string        `json:"run_id"`
	Table    string        `json:"table"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

type TableFailed struct {
	RunID string `json:"run_id"`
	Table string `json:"table"`
	Error string `json:"error"`
}

type RunCompleted struct {
	RunID        string `json:"run_id"`
	Tables       int    `json:"tables"`
	FailedTables int    `json:"failed_tables"`
	Rows         int    `json:"rows"`
	DryRun       bool   `json:"dry_run,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
