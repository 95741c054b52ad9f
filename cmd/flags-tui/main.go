package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/config"
	"github.com/handiism/flags-downloader/internal/logging"
	"github.com/handiism/flags-downloader/internal/tui"
)

func main() {
	var configPath, logPath string

	cmd := &cobra.Command{
		Use:           "flags-tui",
		Short:         "Interactive flag downloader",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				if settings, err = config.LoadExisting(configPath); err != nil {
					return err
				}
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			// The screen belongs to the UI, so logs only go to a file.
			logger := zap.NewNop()
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				logger = logging.New(logging.Options{Verbose: true, JSON: true, Output: f})
			}

			return tui.Run(settings, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON settings file")
	cmd.Flags().StringVar(&logPath, "log-file", "", "write JSON logs to this file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
