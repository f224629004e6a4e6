package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"cadence/internal/bridge"
	"cadence/internal/logging"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var foregroundFormat string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the presence daemon",
		Long: "Run the polling loop that watches what is playing on YouTube Music " +
			"and keeps the Discord rich-presence status in sync. Stops cleanly on interrupt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			format := cfg.Logging.Format
			if foregroundFormat != "" {
				format = foregroundFormat
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: format,
				OutputPaths: []string{
					"stdout",
					filepath.Join(cfg.Paths.LogDir, "cadence.log"),
				},
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			b, err := bridge.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return b.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&foregroundFormat, "log-format", "", "Override log format (console or json)")
	return cmd
}
