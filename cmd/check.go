package cmd

import (
	"encoding/json"
	"fmt"

	"conni/network"
	"conni/status"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probes the endpoint once and prints the result as JSON",
	Long: `The 'check' command runs a single probe. It exits with 0 when the
endpoint answered with a 2xx or 3xx status and with 2 otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := cfg.Request()
		if err != nil {
			return &exitError{code: ExitErrorConfig, err: err}
		}

		checker, err := network.NewChecker(req, cfg.Probe.Timeout, log.Logger)
		if err != nil {
			return &exitError{code: ExitErrorConfig, err: err}
		}

		recorder := status.NewRecorder(req.URL())
		checker.Register(recorder)
		<-checker.Check()

		snapshot, _ := recorder.Latest()
		output, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("error while encoding result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))

		if snapshot.State != status.StateUp {
			return &exitError{code: ExitErrorConnection}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
