package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/kitcheck/internal/probe"
	"github.com/okian/kitcheck/pkg/logger"
)

func newProbeCmd() *cobra.Command {
	cfg := probe.DefaultConfig()
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Smoke-test a running kitcheck server",
		Long: `Check /healthz on a running server, then submit a fixed catalog of kit
scenarios concurrently and compare every outcome with its expectation.`,
		Example: `  kitcheck probe --url http://localhost:9080 --workers 8 --repeat 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if cfg.Verbose {
				level = "debug"
			}
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(level)); err != nil {
				return err
			}

			summary, runErr := probe.Run(cmd.Context(), cfg)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(summary); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "submitted %d, passed %d, failed %d, transport errors %d in %s\n",
					summary.Submitted, summary.Passed, summary.Failed, summary.TransportErrors,
					summary.Duration.Round(time.Millisecond))
				for _, f := range summary.Failures {
					fmt.Fprintf(cmd.OutOrStdout(), "  FAIL %s: want %s/%d, got %s/%d %s\n",
						f.Scenario, f.WantStatus, f.WantCode, f.GotStatus, f.GotCode, f.Err)
				}
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.IntVar(&cfg.Repeat, "repeat", cfg.Repeat, "Times the scenario catalog is submitted")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every scenario")
	f.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
