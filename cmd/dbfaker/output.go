package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/dbfaker/internal/model"
	"github.com/alfredjeanlab/dbfaker/internal/ui"
)

// printSummary writes one line per table followed by the run totals.
func printSummary(w io.Writer, result *model.RunResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range result.Tables {
		status := ui.RenderPass(string(t.Status))
		detail := fmt.Sprintf("%d rows", t.Rows)
		if t.Status == model.TableFailed {
			status = ui.RenderFail(string(t.Status))
			detail = t.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Table, status, ui.RenderMuted(t.Duration.Round(time.Millisecond).String()), detail)
	}
	tw.Flush()

	mode := ""
	if result.DryRun {
		mode = " (dry run, rolled back)"
	}
	fmt.Fprintf(w, "\n%d tables, %d failed, %d rows updated%s\n",
		len(result.Tables), result.Failed(), result.RowsUpdated(), mode)
	if result.RunID != "" {
		fmt.Fprintln(w, ui.RenderMuted("run "+result.RunID))
	}
}
