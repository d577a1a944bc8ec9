package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alfredjeanlab/dbfaker/internal/model"
)

func sampleRun() *model.RunResult {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.RunResult{
		RunID:      "run-abc123def456",
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Tables: []model.TableResult{
			{Table: "users", Status: model.TableCompleted, Rows: 2, Duration: time.Second},
			{Table: "orders", Status: model.TableFailed, Error: "no such table"},
			{Table: "accounts", Status: model.TableCompleted, Rows: 5},
		},
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(sampleRun(), &buf); err != nil {
		t.Fatalf("WriteJSONL error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Type != "header" || h.RunID != "run-abc123def456" {
		t.Errorf("header = %+v", h)
	}
	if h.TableCount != 3 || h.Failed != 1 || h.Rows != 7 {
		t.Errorf("header counts = %d tables, %d failed, %d rows; want 3, 1, 7", h.TableCount, h.Failed, h.Rows)
	}
	if h.StartedAt != "2026-03-01T12:00:00.000Z" {
		t.Errorf("started_at = %q", h.StartedAt)
	}

	wantOrder := []string{"users", "orders", "accounts"}
	for i, line := range lines[1:] {
		var rec struct {
			Type string            `json:"type"`
			Data model.TableResult `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("unmarshal line %d: %v", i+1, err)
		}
		if rec.Type != "table" || rec.Data.Table != wantOrder[i] {
			t.Errorf("line %d = %+v, want table %s", i+1, rec, wantOrder[i])
		}
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.jsonl")
	d := &FileDestination{Path: path}

	for _, payload := range []string{"first\n", "second\n"} {
		if err := d.Write(context.Background(), []byte(payload)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile error: %v", err)
		}
		if string(got) != payload {
			t.Errorf("file = %q, want %q", got, payload)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the report in the directory, found %d entries", len(entries))
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Destination_Write(t *testing.T) {
	fake := &fakeS3{}
	d := &S3Destination{client: fake, bucket: "audit", key: "dbfaker/report.jsonl"}

	if err := d.Write(context.Background(), []byte("payload\n")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if aws.ToString(fake.input.Bucket) != "audit" || aws.ToString(fake.input.Key) != "dbfaker/report.jsonl" {
		t.Errorf("put %s/%s", aws.ToString(fake.input.Bucket), aws.ToString(fake.input.Key))
	}
	if aws.ToString(fake.input.ContentType) != "application/x-ndjson" {
		t.Errorf("content type = %q", aws.ToString(fake.input.ContentType))
	}
	if string(fake.body) != "payload\n" {
		t.Errorf("body = %q", fake.body)
	}
	if d.String() != "s3://audit/dbfaker/report.jsonl" {
		t.Errorf("String() = %q", d.String())
	}

	fake.err = errors.New("access denied")
	if err := d.Write(context.Background(), []byte("x")); err == nil {
		t.Error("expected error from failing PutObject")
	}
}

type memDestination struct {
	name string
	data []byte
	err  error
}

func (m *memDestination) Write(_ context.Context, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memDestination) String() string { return m.name }

func TestShip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok1 := &memDestination{name: "a"}
	bad := &memDestination{name: "b", err: errors.New("disk full")}
	ok2 := &memDestination{name: "c"}

	err := Ship(context.Background(), sampleRun(), []Destination{ok1, bad, ok2}, logger)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Ship error = %v, want disk full", err)
	}
	if len(ok1.data) == 0 || !bytes.Equal(ok1.data, ok2.data) {
		t.Error("healthy destinations should receive the same payload")
	}

	if err := Ship(context.Background(), sampleRun(), nil, logger); err != nil {
		t.Errorf("Ship with no destinations = %v", err)
	}
}
