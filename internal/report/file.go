package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileDestination writes the report to a local path, replacing it
// atomically.
type FileDestination struct {
	Path string
}

func (d *FileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.jsonl")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

func (d *FileDestination) String() string { return "file:" + d.Path }
