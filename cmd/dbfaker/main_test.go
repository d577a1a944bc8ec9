package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/conn"
	"github.com/alfredjeanlab/dbfaker/internal/events"
	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/model"
	"github.com/alfredjeanlab/dbfaker/internal/store"
	"github.com/alfredjeanlab/dbfaker/internal/ui"
)

func TestMain(m *testing.M) {
	ui.ForceNoColor()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func TestExitCode(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, 0},
		{"MissingParam", fmt.Errorf("load: %w", config.ErrMissingParam), 2},
		{"MissingType", fmt.Errorf("users.email: %w", generator.ErrMissingType), 2},
		{"Backoff", fmt.Errorf("%w after 10 attempts", conn.ErrBackoffExceeded), 2},
		{"Validation", &model.ValidationError{Errors: []model.FieldError{{Field: "users.email", Message: "type is required"}}}, 2},
		{"Other", errors.New("boom"), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestSpecFromArgs(t *testing.T) {
	spec, err := specFromArgs("integer", []string{"min=10", "max=20", "label=age"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != "integer" {
		t.Errorf("Type = %q", spec.Type)
	}
	if n, _ := spec.Int("min", 0); n != 10 {
		t.Errorf("min = %d, want 10", n)
	}
	if s := spec.String("label", ""); s != "age" {
		t.Errorf("label = %q, want age", s)
	}

	spec, err = specFromArgs("choose", []string{"options=red,green"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts, _ := spec.List("options", nil); !reflect.DeepEqual(opts, []any{"red", "green"}) {
		t.Errorf("options = %v", opts)
	}

	if _, err := specFromArgs("fixed", []string{"novalue"}); err == nil {
		t.Error("expected error for option without '='")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &model.RunResult{
		RunID:  "run-abc",
		DryRun: true,
		Tables: []model.TableResult{
			{Table: "users", Status: model.TableCompleted, Rows: 2, Duration: 1500 * time.Microsecond},
			{Table: "orders", Status: model.TableFailed, Error: "no such table"},
		},
	})
	out := buf.String()
	for _, want := range []string{
		"users", "completed", "2 rows",
		"orders", "failed", "no such table",
		"2 tables, 1 failed, 2 rows updated (dry run, rolled back)",
		"run run-abc",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	for _, tc := range []struct {
		topic string
		data  string
		want  string
	}{
		{events.TopicTableStarted, `{"run_id":"run-1","table":"users","fields":["email","name"]}`, "run-1 users started (email, name)"},
		{events.TopicTableCompleted, `{"run_id":"run-1","table":"users","rows":2,"duration":2000000000}`, "run-1 users completed 2 rows in 2s"},
		{events.TopicTableFailed, `{"run_id":"run-1","table":"orders","error":"boom"}`, "run-1 orders failed boom"},
		{events.TopicRunCompleted, `{"run_id":"run-1","tables":2,"failed_tables":1,"rows":2}`, "run-1 run finished: 2 tables, 1 failed, 2 rows"},
	} {
		t.Run(tc.topic, func(t *testing.T) {
			line, runID, err := formatEvent(events.Message{Topic: tc.topic, Data: []byte(tc.data)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if line != tc.want {
				t.Errorf("line = %q, want %q", line, tc.want)
			}
			if runID != "run-1" {
				t.Errorf("runID = %q", runID)
			}
		})
	}
}

func TestFollowEvents_FiltersByRun(t *testing.T) {
	ch := make(chan events.Message, 4)
	ch <- events.Message{Topic: events.TopicTableStarted, Data: []byte(`{"run_id":"run-a","table":"users"}`)}
	ch <- events.Message{Topic: events.TopicTableStarted, Data: []byte(`{"run_id":"run-b","table":"orders"}`)}
	ch <- events.Message{Topic: "dbfaker.unknown", Data: []byte(`{}`)}
	ch <- events.Message{Topic: events.TopicRunCompleted, Data: []byte(`{"run_id":"run-a","tables":1}`)}
	close(ch)

	var buf bytes.Buffer
	if err := followEvents(make(chan struct{}), ch, &buf, "run-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "users") || !strings.Contains(lines[1], "run finished") {
		t.Errorf("output = %q", buf.String())
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_DRIVER", "SQL_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME"} {
		t.Setenv(key, "")
	}
}

const usersConfig = `connection:
  host: localhost
  port: 3306
  user: root
  password: secret
  dbname: shop
tables:
  users:
    email: emailunique
    age:
      type: integer
      except: "> 100"
`

func TestLoadDocument(t *testing.T) {
	clearConnectionEnv(t)
	doc, dialect, err := loadDocument(writeConfig(t, "dbfaker.yaml", usersConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dialect != store.MySQL {
		t.Errorf("dialect = %q, want mysql", dialect)
	}
	if len(doc.Tables) != 1 || doc.Tables[0].Name != "users" {
		t.Errorf("tables = %+v", doc.Tables)
	}

	var buf bytes.Buffer
	if err := printPlan(&buf, doc, dialect); err != nil {
		t.Fatalf("printPlan error: %v", err)
	}
	for _, want := range []string{
		"SELECT id, email, age FROM users WHERE age > 100",
		"UPDATE users SET email = ?, age = ? WHERE id = ?",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("plan missing %q:\n%s", want, buf.String())
		}
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	clearConnectionEnv(t)
	for _, tc := range []struct {
		name    string
		content string
		want    int
	}{
		{"MissingPassword", strings.Replace(usersConfig, "  password: secret\n", "", 1), 2},
		{"MissingType", strings.Replace(usersConfig, "    email: emailunique\n", "    email:\n      unique: true\n", 1), 2},
		{"BadDriver", strings.Replace(usersConfig, "  host: localhost\n", "  host: localhost\n  driver: oracle\n", 1), 1},
		{"NoTables", "connection:\n  host: h\n  port: 1\n  user: u\n  password: p\n  dbname: d\n", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := loadDocument(writeConfig(t, "dbfaker.yaml", tc.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := exitCode(err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", err, got, tc.want)
			}
		})
	}
}

func TestLoadDocument_EnvFallback(t *testing.T) {
	clearConnectionEnv(t)
	t.Setenv("DB_PASS", "from-env")
	content := strings.Replace(usersConfig, "  password: secret\n", "", 1)
	doc, _, err := loadDocument(writeConfig(t, "dbfaker.yaml", content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Connection.Password != "from-env" {
		t.Errorf("password = %q, want from-env", doc.Connection.Password)
	}
}

func TestLoadDocument_BadTableNameIsNotFatal(t *testing.T) {
	clearConnectionEnv(t)
	content := usersConfig + "  legacy-log:\n    message: sentence\n"
	doc, _, err := loadDocument(writeConfig(t, "dbfaker.yaml", content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tables) != 2 || doc.Tables[1].Name != "legacy-log" {
		t.Fatalf("tables = %+v", doc.Tables)
	}

	var buf bytes.Buffer
	err = printPlan(&buf, doc, store.MySQL)
	if err == nil || exitCode(err) != 1 {
		t.Errorf("printPlan error = %v, want a per-table failure with exit 1", err)
	}
	if !strings.Contains(buf.String(), "SELECT id, email, age FROM users WHERE age > 100") {
		t.Errorf("plan for users missing:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `invalid table name "legacy-log"`) {
		t.Errorf("plan missing legacy-log error:\n%s", buf.String())
	}
}
