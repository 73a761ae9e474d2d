package cmd

import (
	"errors"
	"fmt"
	"os"

	"conni/config"
	"conni/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitErrorInvalidArgs = 1
	ExitErrorConnection  = 2
	ExitErrorConfig      = 3
)

var (
	cfgFile  string
	logLevel string
	probeURL string

	loader *config.Loader
	cfg    *config.Config
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "conni",
	Short: "Keeps an eye on the internet connection",
	Long: `Conni periodically probes a well known HTTPS endpoint and reports
whether the internet is reachable on a tower light, a status endpoint,
a heartbeat service and transition notifications.

Usage: conni [--config=path/to/conni.yaml] run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loader = config.NewLoader(cfgFile)

		v := loader.Viper()
		if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
			return err
		}
		if err := v.BindPFlag("probe.url", cmd.Flags().Lookup("url")); err != nil {
			return err
		}

		c, err := loader.Load()
		if err != nil {
			return &exitError{code: ExitErrorConfig, err: err}
		}

		logger.Init(c.Log.File)
		logger.SetLevel(c.Log.Level)
		if f := loader.File(); f != "" {
			log.Debug().Str("file", f).Msg("Configuration loaded")
		}

		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	code := ExitErrorInvalidArgs
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		err = ee.err
	}
	if err != nil {
		log.Error().Err(err).Msg("conni failed")
	}
	os.Exit(code)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to configuration file (default $HOME/.conni.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&probeURL, "url", "u", "", "URL to probe instead of the configured one")
}
