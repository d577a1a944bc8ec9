package anonymize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/dbfaker/internal/events"
	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/metrics"
	"github.com/alfredjeanlab/dbfaker/internal/model"
)

// TableProcessor rewrites a single table and reports the rows updated.
type TableProcessor interface {
	ProcessTable(ctx context.Context, table model.Table) (int, error)
}

// Orchestrator runs the table processor over every configured table in
// declaration order. A failing table is recorded and the run moves on.
type Orchestrator struct {
	proc      TableProcessor
	publisher events.Publisher
	metrics   *metrics.Recorder
	out       io.Writer
	logger    *slog.Logger

	RunID  string
	DryRun bool

	now func() time.Time
}

// NewOrchestrator returns an Orchestrator printing progress lines to out.
// A nil publisher disables events; a nil recorder disables metrics.
func NewOrchestrator(proc TableProcessor, publisher events.Publisher, rec *metrics.Recorder, out io.Writer, logger *slog.Logger) *Orchestrator {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &Orchestrator{
		proc:      proc,
		publisher: publisher,
		metrics:   rec,
		out:       out,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes tables in order and returns their outcomes. It stops early
// only when ctx is done or a field has no type; the partial result is
// returned alongside that error.
func (o *Orchestrator) Run(ctx context.Context, tables []model.Table) (*model.RunResult, error) {
	result := &model.RunResult{
		RunID:     o.RunID,
		DryRun:    o.DryRun,
		StartedAt: o.now(),
	}
	defer func() { result.FinishedAt = o.now() }()

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprintf(o.out, "Executing %s table\n", table.Name)
		o.publish(ctx, events.TopicTableStarted, events.TableStarted{
			RunID:  o.RunID,
			Table:  table.Name,
			Fields: table.FieldNames(),
			DryRun: o.DryRun,
		})

		start := o.now()
		rows, err := o.proc.ProcessTable(ctx, table)
		tr := model.TableResult{Table: table.Name, Rows: rows, Duration: o.now().Sub(start)}

		if err != nil {
			tr.Status = model.TableFailed
			tr.Rows = 0
			tr.Error = err.Error()
			o.logger.Error("table failed", "table", table.Name, "err", err)
			o.publish(ctx, events.TopicTableFailed, events.TableFailed{
				RunID: o.RunID,
				Table: table.Name,
				Error: err.Error(),
			})
		} else {
			tr.Status = model.TableCompleted
			o.logger.Info("table completed", "table", table.Name, "rows", rows, "duration", tr.Duration)
			o.publish(ctx, events.TopicTableCompleted, events.TableCompleted{
				RunID:    o.RunID,
				Table:    table.Name,
				Rows:     rows,
				Duration: tr.Duration,
			})
		}
		if o.metrics != nil {
			o.metrics.TableDone(table.Name, string(tr.Status), tr.Rows, tr.Duration)
		}
		result.Tables = append(result.Tables, tr)

		if errors.Is(err, generator.ErrMissingType) || errors.Is(err, context.Canceled) {
			return result, err
		}
	}

	o.publish(ctx, events.TopicRunCompleted, events.RunCompleted{
		RunID:        o.RunID,
		Tables:       len(result.Tables),
		FailedTables: result.Failed(),
		Rows:         result.RowsUpdated(),
		DryRun:       o.DryRun,
	})
	return result, nil
}

// publish never fails the run; event delivery is best effort.
func (o *Orchestrator) publish(ctx context.Context, topic string, event any) {
	if err := o.publisher.Publish(ctx, topic, event); err != nil {
		o.logger.Warn("publish event failed", "topic", topic, "err", err)
	}
}
