package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/conn"
	"github.com/alfredjeanlab/dbfaker/internal/store"
	"github.com/alfredjeanlab/dbfaker/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Validate the configuration and print the statements a run would execute",
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		connect, _ := cmd.Flags().GetBool("connect")

		doc, dialect, err := loadDocument(configPath)
		if err != nil {
			return err
		}
		if err := printPlan(cmd.OutOrStdout(), doc, dialect); err != nil {
			return err
		}
		if !connect {
			return nil
		}

		db, err := conn.New(doc.Connection, dialect, logger).Connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.RenderPass("ok"), "database is reachable")
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("connect", false, "also connect to the database (with retries)")
}

// printPlan renders the SELECT and UPDATE of every table in run order. A
// table whose statements cannot be built is reported and skipped, as a run
// would skip it.
func printPlan(w io.Writer, doc *config.Document, dialect store.Dialect) error {
	c := doc.Connection
	fmt.Fprintf(w, "Connection: %s %s@%s:%s/%s\n", dialect, c.User, c.Host, c.Port, c.DBName)
	failed := 0
	for _, t := range doc.Tables {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent(t.Name))
		for _, f := range t.Fields {
			fmt.Fprintf(w, "  %-20s %s\n", f.Name, ui.RenderMuted(f.Spec.Type))
		}
		sel, err := dialect.BuildSelect(t.Name, t.FieldNames(), t.Excepts())
		if err == nil {
			var upd string
			if upd, err = dialect.BuildUpdate(t.Name, t.FieldNames()); err == nil {
				fmt.Fprintf(w, "  %s\n  %s\n", sel, upd)
				continue
			}
		}
		failed++
		fmt.Fprintf(w, "  %s %v\n", ui.RenderFail("error:"), err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tables would fail", failed, len(doc.Tables))
	}
	return nil
}
