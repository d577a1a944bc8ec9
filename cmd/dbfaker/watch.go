package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/events"
	"github.com/alfredjeanlab/dbfaker/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow run progress published on NATS",
	GroupID: "inspect",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runFilter, _ := cmd.Flags().GetString("run")
		natsURL, _ := cmd.Flags().GetString("nats-url")
		if natsURL == "" {
			natsURL = settings.NATSURL
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS server configured (set DBFAKER_NATS_URL or --nats-url)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats reconnected")
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(events.TopicAll)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		logger.Info("watching", "nats_url", natsURL, "subject", events.TopicAll)
		return followEvents(ctx.Done(), ch, cmd.OutOrStdout(), runFilter)
	},
}

func init() {
	watchCmd.Flags().String("run", "", "only show events of this run ID")
	watchCmd.Flags().String("nats-url", "", "NATS server URL (default $DBFAKER_NATS_URL)")
}

// followEvents prints every message until done is closed or ch is closed.
func followEvents(done <-chan struct{}, ch <-chan events.Message, w io.Writer, runFilter string) error {
	for {
		select {
		case <-done:
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			line, runID, err := formatEvent(msg)
			if err != nil {
				logger.Debug("skipping event", "topic", msg.Topic, "err", err)
				continue
			}
			if runFilter != "" && runID != runFilter {
				continue
			}
			fmt.Fprintln(w, line)
		}
	}
}

// formatEvent renders a message as one console line and returns its run ID.
func formatEvent(msg events.Message) (string, string, error) {
	ev, err := events.Decode(msg)
	if err != nil {
		return "", "", err
	}
	switch e := ev.(type) {
	case *events.TableStarted:
		return fmt.Sprintf("%s %s started (%s)", ui.RenderMuted(e.RunID), ui.RenderAccent(e.Table), strings.Join(e.Fields, ", ")), e.RunID, nil
	case *events.TableCompleted:
		return fmt.Sprintf("%s %s %s %d rows in %s", ui.RenderMuted(e.RunID), ui.RenderAccent(e.Table), ui.RenderPass("completed"), e.Rows, e.Duration), e.RunID, nil
	case *events.TableFailed:
		return fmt.Sprintf("%s %s %s %s", ui.RenderMuted(e.RunID), ui.RenderAccent(e.Table), ui.RenderFail("failed"), e.Error), e.RunID, nil
	case *events.RunCompleted:
		return fmt.Sprintf("%s run finished: %d tables, %d failed, %d rows", ui.RenderMuted(e.RunID), e.Tables, e.FailedTables, e.Rows), e.RunID, nil
	default:
		return "", "", fmt.Errorf("unhandled event %T", ev)
	}
}
