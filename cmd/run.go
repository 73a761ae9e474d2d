package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"conni/config"
	"conni/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts the continuous connectivity monitoring",
	Long: `The 'run' command probes the configured endpoint until interrupted.
The next probe comes after the success interval when the endpoint answered
with a 2xx or 3xx status and after the failure interval otherwise.

Example:
  conni run --config /path/to/conni.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMonitor(cfg)
		if err != nil {
			return &exitError{code: ExitErrorConfig, err: err}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loader.Watch(func(c *config.Config) {
			logger.SetLevel(c.Log.Level)
		})

		if m.server != nil {
			go func() {
				if err := m.server.Start(); err != nil {
					log.Error().Err(err).Msg("Status server stopped")
				}
			}()
			defer m.server.Shutdown()
		}

		log.Info().Str("url", m.checker.Request().URL()).Msg("Press Ctrl+C to stop")
		m.task.Run(ctx)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
