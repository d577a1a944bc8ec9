// Package report exports the outcome of a run as JSONL and ships it to one
// or more destinations.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// Destination is the interface for a report target (file, S3, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
	// String names the destination in logs.
	String() string
}

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version    string `json:"version"`
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	DryRun     bool   `json:"dry_run"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	TableCount int    `json:"table_count"`
	Failed     int    `json:"failed"`
	Rows       int    `json:"rows"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// WriteJSONL writes the run as a header line followed by one line per
// table, in processing order.
func WriteJSONL(run *model.RunResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		RunID:      run.RunID,
		DryRun:     run.DryRun,
		StartedAt:  run.StartedAt.UTC().Format(timeLayout),
		FinishedAt: run.FinishedAt.UTC().Format(timeLayout),
		TableCount: len(run.Tables),
		Failed:     run.Failed(),
		Rows:       run.RowsUpdated(),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, t := range run.Tables {
		if err := enc.Encode(record{Type: "table", Data: t}); err != nil {
			return fmt.Errorf("encode table %s: %w", t.Table, err)
		}
	}
	return nil
}

// Ship renders run once and writes it to every destination. A failing
// destination does not stop the others; their errors are joined.
func Ship(ctx context.Context, run *model.RunResult, dests []Destination, logger *slog.Logger) error {
	if len(dests) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := WriteJSONL(run, &buf); err != nil {
		return err
	}
	data := buf.Bytes()

	var errs []error
	for _, d := range dests {
		if err := d.Write(ctx, data); err != nil {
			logger.Error("report destination write failed", "destination", d.String(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
			continue
		}
		logger.Info("report written", "destination", d.String(), "bytes", len(data))
	}
	return errors.Join(errs...)
}
