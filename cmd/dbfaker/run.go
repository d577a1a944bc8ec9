package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/anonymize"
	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/conn"
	"github.com/alfredjeanlab/dbfaker/internal/events"
	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/idgen"
	"github.com/alfredjeanlab/dbfaker/internal/metrics"
	"github.com/alfredjeanlab/dbfaker/internal/report"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Rewrite every configured column with generated values",
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		doc, dialect, err := loadDocument(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runID, err := idgen.RunID()
		if err != nil {
			return err
		}
		logger := logger.With("run_id", runID)

		supervisor := conn.New(doc.Connection, dialect, logger)
		db, err := supervisor.Connect(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		rec := metrics.NewRecorder()
		rec.ConnectFailures(supervisor.Attempts())

		publisher, err := newPublisher(settings.NATSURL)
		if err != nil {
			return err
		}
		defer publisher.Close()

		proc := anonymize.NewProcessor(db, dialect, generator.New(settings.Seed), logger)
		proc.DryRun = dryRun

		orch := anonymize.NewOrchestrator(proc, publisher, rec, cmd.OutOrStdout(), logger)
		orch.RunID = runID
		orch.DryRun = dryRun

		result, runErr := orch.Run(ctx, doc.Tables)
		printSummary(cmd.OutOrStdout(), result)

		// Reporting runs on a fresh context so an interrupted run is still
		// recorded.
		finishCtx := context.WithoutCancel(ctx)
		dests, err := reportDestinations(finishCtx, settings)
		if err != nil {
			logger.Error("report setup failed", "err", err)
		}
		if err := report.Ship(finishCtx, result, dests, logger); err != nil {
			logger.Error("report failed", "err", err)
		}
		if settings.PushgatewayURL != "" {
			if err := rec.Push(finishCtx, settings.PushgatewayURL, runID); err != nil {
				logger.Error("metrics push failed", "err", err)
			}
		}

		if runErr != nil {
			return runErr
		}
		if n := result.Failed(); n > 0 {
			return fmt.Errorf("%d of %d tables failed", n, len(result.Tables))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "generate and update inside each transaction, then roll back")
}

func newPublisher(natsURL string) (events.Publisher, error) {
	if natsURL == "" {
		logger.Debug("events disabled (DBFAKER_NATS_URL not set)")
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(natsURL)
	if err != nil {
		return nil, err
	}
	logger.Info("events enabled", "nats_url", natsURL)
	return pub, nil
}

func reportDestinations(ctx context.Context, s *config.Settings) ([]report.Destination, error) {
	var dests []report.Destination
	if s.ReportFile != "" {
		dests = append(dests, &report.FileDestination{Path: s.ReportFile})
	}
	if s.ReportGitRepo != "" {
		dests = append(dests, report.NewGitDestination(s.ReportGitRepo, s.ReportGitFile, s.ReportGitBranch))
	}
	if s.ReportS3Bucket != "" {
		d, err := report.NewS3Destination(ctx, s.ReportS3Bucket, s.ReportS3Key, s.ReportS3Region, s.ReportS3Endpoint)
		if err != nil {
			return dests, err
		}
		dests = append(dests, d)
	}
	return dests, nil
}
