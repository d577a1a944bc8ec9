package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dbfaker/internal/config"
	"github.com/alfredjeanlab/dbfaker/internal/conn"
	"github.com/alfredjeanlab/dbfaker/internal/generator"
	"github.com/alfredjeanlab/dbfaker/internal/model"
	"github.com/alfredjeanlab/dbfaker/internal/ui"
)

var (
	configPath string
	verbose    bool
	noColor    bool

	settings *config.Settings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dbfaker <command>",
	Short:         "Replace database column values with generated fake data",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		s, err := config.LoadSettings()
		if err != nil {
			return err
		}
		settings = s
		if !cmd.Flags().Changed("config") {
			configPath = s.ConfigPath
		}

		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dbfaker.yaml", "table configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "data", Title: "Data:"},
		&cobra.Group{ID: "inspect", Title: "Inspect:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Data
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)

	// Inspect
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(watchCmd)
}

// exitCode maps an error to the process exit status. Configuration and
// connection failures exit 2; everything else exits 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ve *model.ValidationError
	switch {
	case errors.Is(err, config.ErrMissingParam),
		errors.Is(err, generator.ErrMissingType),
		errors.Is(err, conn.ErrBackoffExceeded),
		errors.As(err, &ve):
		return 2
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
